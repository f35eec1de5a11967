package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Print a note as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pb := openBoard(cmd)
		defer pb.Close()

		n, err := pb.Notes.Get(context.Background(), args[0])
		if err != nil {
			fatal("Failed to read note", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(n); err != nil {
			fatal("Failed to encode JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the board and seed the demo notes",
	Long: `Create the storage (directory, git repository or database schema) and write the
four demo notes if the collection is empty. Running it again is harmless.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pb := openBoard(cmd)
		defer pb.Close()

		ctx := withReason(context.Background(), "chore", "seed demo notes")
		seeded, err := pb.Notes.Initialize(ctx)
		if err != nil {
			fatal("Failed to seed board", err)
		}

		if seeded {
			fmt.Printf("Board initialized in %s (%s) with demo notes.\n", pb.Config.Path, pb.Config.Backend)
			return
		}
		fmt.Printf("Board in %s already has notes.\n", pb.Config.Path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pinboard"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		pb := openBoard(cmd)
		defer pb.Close()

		ctx := withReason(context.Background(), pinboard.CommitTypeFeat, "delete "+id)
		if err := pb.Notes.Remove(ctx, id); err != nil {
			fatal("Failed to delete note", err)
		}
		fmt.Printf("Note '%s' deleted.\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

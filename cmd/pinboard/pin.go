package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pinboard"
)

var pinCmd = &cobra.Command{
	Use:   "pin [id]",
	Short: "Toggle the pinned state of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		pb := openBoard(cmd)
		defer pb.Close()

		ctx := withReason(context.Background(), pinboard.CommitTypeFeat, "toggle pin "+id)
		n, err := pb.Notes.TogglePin(ctx, id)
		if err != nil {
			fatal("Failed to toggle pin", err)
		}

		state := "unpinned"
		if n.IsPinned {
			state = "pinned"
		}
		fmt.Printf("Note '%s' %s.\n", id, state)
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
}

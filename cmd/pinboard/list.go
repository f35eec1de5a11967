package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/pinboard/pkg/note"
)

var (
	listJSON   bool
	listType   string
	listPinned bool
	listTxt    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes on the board",
	Long:  `List notes, pinned ones first. Filters combine: --type, --pinned and --txt (case-insensitive).`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filter := note.DefaultFilter()
		filter.Txt = listTxt
		if listType != "" {
			t, err := note.ParseType(listType)
			if err != nil {
				fatal("Invalid --type", err)
			}
			filter.Type = t
		}
		if cmd.Flags().Changed("pinned") {
			filter.Pinned = &listPinned
		}

		pb := openBoard(cmd)
		defer pb.Close()

		notes, err := pb.Notes.Search(context.Background(), filter)
		if err != nil {
			fatal("Failed to list notes", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, n := range notes {
			fmt.Println(summary(n))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listType, "type", "", "Only notes of this type (text, img, todos, video, draw)")
	listCmd.Flags().BoolVar(&listPinned, "pinned", false, "Only pinned notes (--pinned=false for unpinned)")
	listCmd.Flags().StringVar(&listTxt, "txt", "", "Only notes containing this text")
}

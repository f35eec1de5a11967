package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	eventsource "github.com/aretw0/pinboard/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print changes made to the board by other processes",
	Long: `Watch the storage and print one line per changed collection key until
interrupted. The optional pattern is a glob over keys (default "*").`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := "*"
		if len(args) == 1 {
			pattern = args[0]
		}

		pb := openBoard(cmd)
		defer pb.Close()

		ctx := lifecycle.NewSignalContext(context.Background())
		defer ctx.Stop()
		defer ctx.Cancel()

		events, err := pb.Watch(ctx, pattern)
		if err != nil {
			fatal("Failed to watch board", err)
		}

		src := eventsource.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Fprintf(os.Stderr, "Watching %s for %q (Ctrl+C to stop)\n", pb.Config.Path, pattern)
		for e := range src.Events() {
			fmt.Println(e.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

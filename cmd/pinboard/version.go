package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/pinboard"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pinboard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pinboard version %s\n", strings.TrimSpace(pinboard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/reveal"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of reveal",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reveal version %s\n", strings.TrimSpace(reveal.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

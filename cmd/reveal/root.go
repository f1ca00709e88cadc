package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reveal",
	Short: "Reveal is a signal-driven text reveal sequencer",
	Long: `Reveal plays a two-scene text animation on an HTML page: it splits the
title and subtitles into characters and words, schedules their staggered
reveal and conceal, and loops between scenes as animation signals arrive.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("page", "index.html", "HTML page holding the animated elements")
	rootCmd.PersistentFlags().String("config", "reveal.yaml", "Timing configuration file (defaults apply when missing)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("decorative-animation", "stickerSlap", "Decorative sub-animation that marks the sticker as removing")
}

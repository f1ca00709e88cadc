package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/reveal/internal/presentation/graph"
	"github.com/aretw0/reveal/pkg/sequence"
	"github.com/aretw0/reveal/pkg/timing"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the phase graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the phases and the signals that move between them.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGraph(readSettings(cmd), os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(s settings, w io.Writer) error {
	cfg, err := timing.Load(s.ConfigPath)
	if err != nil {
		return fmt.Errorf("load timing: %w", err)
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(sequence.Edges(s.rules(cfg)), nil))
	return err
}

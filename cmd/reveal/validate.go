package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/reveal"
	"github.com/aretw0/reveal/pkg/adapters/htmldom"
	"github.com/aretw0/reveal/pkg/timing"
)

var errMissingTargets = errors.New("page is missing animated elements")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the timing file and the page",
	Long: `Parses the timing configuration and the page, then reports which animated
elements were found. Missing elements are only skipped at runtime; use --strict
to treat them as errors.`,
	Run: func(cmd *cobra.Command, args []string) {
		strict, _ := cmd.Flags().GetBool("strict")
		if err := runValidate(readSettings(cmd), strict); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Page and timing are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Fail when an animated element is missing")
}

func runValidate(s settings, strict bool) error {
	cfg, err := timing.Load(s.ConfigPath)
	if err != nil {
		return err
	}
	for _, phase := range timing.Phases() {
		fmt.Printf("  %-20s %8s  delay %s\n", phase, cfg.Duration(phase), cfg.Delay(phase))
	}

	page, err := htmldom.Open(s.PagePath)
	if err != nil {
		return err
	}

	sel := reveal.DefaultSelectors()
	checks := []struct {
		name  string
		class string
		want  int
	}{
		{"title", sel.Title, 1},
		{"subtitles", sel.Subtitle, 2},
		{"value group", sel.ValueGroup, 1},
		{"decorative", sel.Decorative, 1},
	}

	missing := 0
	for _, c := range checks {
		found := len(page.FindAll(c.class))
		mark := "✅"
		if found < c.want {
			mark = "⚠️"
			missing++
		}
		fmt.Printf("  %s %-12s .%s (%d/%d)\n", mark, c.name, c.class, found, c.want)
	}

	if missing > 0 && strict {
		return fmt.Errorf("%w: %d of %d", errMissingTargets, missing, len(checks))
	}
	return nil
}

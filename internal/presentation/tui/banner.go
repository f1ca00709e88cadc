package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the reveal ASCII art banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                            _ ", "#818cf8"},
		{"  _ __ _____   _____  __ _| |", "#a78bfa"},
		{" | '__/ _ \\ \\ / / _ \\/ _` | |", "#c084fc"},
		{" | | |  __/\\ V /  __/ (_| | |", "#e879f9"},
		{" |_|  \\___| \\_/ \\___|\\__,_|_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

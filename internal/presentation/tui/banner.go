package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the AeroSim ASCII banner to w using profile p.
func PrintBanner(w io.Writer, p termenv.Profile) {
	// Sky-to-dusk gradient
	lines := []struct {
		text  string
		color string
	}{
		{"     _                   ____  _           ", "#38bdf8"},
		{"    / \\   ___ _ __ ___  / ___|(_)_ __ ___  ", "#60a5fa"},
		{"   / _ \\ / _ \\ '__/ _ \\ \\___ \\| | '_ ` _ \\ ", "#818cf8"},
		{"  / ___ \\  __/ | | (_) | ___) | | | | | | |", "#a78bfa"},
		{" /_/   \\_\\___|_|  \\___/ |____/|_|_| |_| |_|", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"golang.org/x/term"
)

// Terminal widths used to pick the table layout.
const (
	defaultTermWidth = 80 // conservative default for narrow terminals and CI
	wideTableWidth   = 100
)

// terminalWidth returns the stdout terminal width, or a fallback when it is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}

// useWideTable reports whether the detail columns fit next to the core ones.
func useWideTable(width int) bool {
	return width >= wideTableWidth
}

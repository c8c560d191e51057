package display

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/samber/lo"
)

const (
	defaultWidth = 80
	minWidth     = 40
	maxWidth     = 120
)

// TerminalWidth returns the width of the terminal attached to f, clamped to
// a readable range. Pipes and files get 80 columns.
func TerminalWidth(f *os.File) int {
	if f == nil {
		return defaultWidth
	}
	w, _, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return lo.Clamp(w, minWidth, maxWidth)
}

package tray

import (
	"strings"

	"github.com/joshuadavidthomas/liment/internal/render"
)

const separatorText = "────────────"

// line is one entry in the tray menu. systray menus cannot remove items, so
// the adapter keeps a fixed pool and maps data rows onto it.
type line struct {
	Title   string
	Tooltip string
	Action  render.Action
}

// title is the compact text next to the tray icon, e.g. "5h 42%  7d 13%".
func title(vm render.ViewModel) string {
	parts := make([]string, 0, len(vm.Tray.Slots))
	for _, s := range vm.Tray.Slots {
		parts = append(parts, s.Text())
	}
	return strings.Join(parts, "  ")
}

// dataLines flattens the non-action rows of vm into menu lines. The action
// rows are fixed items created once.
func dataLines(vm render.ViewModel) []line {
	var out []line
	for _, r := range vm.Menu {
		switch r.Kind {
		case render.RowAction:
			continue
		case render.RowHeader:
			t := r.Text
			if r.Badge != nil {
				t += "  [" + r.Badge.Text + "]"
			}
			out = append(out, line{Title: t})
		case render.RowWindow:
			out = append(out, line{Title: r.Text + "  " + bar(r.Percent), Tooltip: r.Detail})
			if r.Detail != "" {
				out = append(out, line{Title: "    " + r.Detail})
			}
		case render.RowSeparator:
			out = append(out, line{Title: separatorText})
		case render.RowKeyValue:
			out = append(out, line{Title: r.Text + ": " + r.Value})
		case render.RowMessage:
			out = append(out, line{Title: r.Text, Tooltip: r.Detail})
		default:
			out = append(out, line{Title: r.Text})
		}
	}
	// The pool is followed by a real separator.
	if n := len(out); n > 0 && out[n-1].Title == separatorText {
		out = out[:n-1]
	}
	return out
}

// bar renders a ten-cell text progress bar.
func bar(percent float64) string {
	filled := int(percent/10 + 0.5)
	filled = max(0, min(10, filled))
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}

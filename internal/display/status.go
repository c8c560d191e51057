// Package display renders view models and fetch results for the command
// line.
package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/joshuadavidthomas/liment/internal/models"
	"github.com/joshuadavidthomas/liment/internal/render"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

type Options struct {
	Width   int
	NoColor bool
}

// barWidth leaves room for the title, percentage and reset columns.
func (o Options) barWidth() int {
	return max(10, min(30, o.Width-50))
}

func (o Options) style(s lipgloss.Style) lipgloss.Style {
	if o.NoColor {
		return lipgloss.NewStyle()
	}
	return s
}

func (o Options) fg(c models.RGB) lipgloss.Style {
	return o.style(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())))
}

// RenderBar draws a percentage bar of the given width.
func RenderBar(percent float64, width int) string {
	filled := max(0, min(int(percent)*width/100, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderStatus renders the menu rows of vm as plain terminal text. Action
// rows are skipped.
func RenderStatus(vm render.ViewModel, opts Options) string {
	var (
		lines   []string
		windows []render.Row
	)
	flush := func() {
		if len(windows) > 0 {
			lines = append(lines, windowTable(windows, opts))
			windows = nil
		}
	}

	for _, r := range vm.Menu {
		if r.Kind == render.RowWindow {
			windows = append(windows, r)
			continue
		}
		flush()
		switch r.Kind {
		case render.RowHeader:
			h := opts.style(titleStyle).Render(r.Text)
			if r.Badge != nil {
				h += " " + opts.fg(r.Badge.Color).Render("["+r.Badge.Text+"]")
			}
			lines = append(lines, h)
		case render.RowSection:
			lines = append(lines, opts.style(sectionStyle).Render(r.Text))
		case render.RowKeyValue:
			lines = append(lines, "  "+r.Text+": "+r.Value)
		case render.RowMessage:
			msg := r.Text
			if vm.Status == render.StatusFailed {
				msg = opts.style(errorStyle).Render(msg)
			}
			lines = append(lines, msg)
			if r.Detail != "" {
				lines = append(lines, opts.style(dimStyle).Render("  "+r.Detail))
			}
		case render.RowSeparator:
			lines = append(lines, "")
		}
	}
	flush()

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// windowTable renders consecutive window rows as one borderless table so
// their columns line up.
func windowTable(rows []render.Row, opts Options) string {
	width := opts.barWidth()
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(_ int, col int) lipgloss.Style {
			switch col {
			case 2:
				return lipgloss.NewStyle().Align(lipgloss.Right)
			case 3:
				return opts.style(dimStyle)
			}
			return lipgloss.NewStyle()
		})
	for _, r := range rows {
		title := strings.TrimSuffix(r.Text, "  "+r.Value)
		bar := opts.fg(r.Color).Render(RenderBar(r.Percent, width))
		t.Row(title, bar, r.Value, r.Detail)
	}
	return cleanTableOutput(t.Render())
}

// cleanTableOutput strips the hidden border's left edge and trailing
// whitespace, and drops the empty border lines.
func cleanTableOutput(rendered string) string {
	var cleaned []string
	for _, line := range strings.Split(rendered, "\n") {
		line = strings.TrimPrefix(line, " ")
		line = strings.TrimRight(line, " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// RenderLine is the one-line form used by `status -o line`, matching the
// tray tooltip.
func RenderLine(vm render.ViewModel) string {
	if vm.Tray.Tooltip != "" {
		return vm.Tray.Tooltip
	}
	parts := make([]string, 0, len(vm.Tray.Slots))
	for _, s := range vm.Tray.Slots {
		parts = append(parts, s.Text())
	}
	return strings.Join(parts, " | ")
}

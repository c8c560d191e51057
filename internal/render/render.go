// Package render turns fetch outcomes into a toolkit-neutral view model.
// Nothing here touches a UI; adapters paint what Render returns.
package render

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/models"
)

// Placeholder marks a tray slot with no usable data. It is never a number.
const Placeholder = "--"

// LoadingText is shown in the tooltip and menu before the first result.
const LoadingText = "Loading..."

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Slot is one compact tray entry such as "5h 42%".
type Slot struct {
	Label   string
	Value   string
	Percent float64
	// Numeric is false for placeholders.
	Numeric bool
}

func (s Slot) Text() string {
	if s.Value == "" {
		return s.Label
	}
	return s.Label + " " + s.Value
}

// Icon holds the parameters an adapter needs to draw the tray gauge.
type Icon struct {
	Monochrome  bool
	Unavailable bool
	// Fill is the gauge level in [0, 1].
	Fill  float64
	Color models.RGB
}

type Tray struct {
	Slots   []Slot
	Tooltip string
	Icon    Icon
}

type RowKind int

const (
	RowHeader RowKind = iota
	RowWindow
	RowSeparator
	RowSection
	RowKeyValue
	RowMessage
	RowAction
)

type Action int

const (
	ActionNone Action = iota
	ActionRefresh
	ActionOpenConfig
	ActionQuit
)

type Badge struct {
	Text  string
	Color models.RGB
}

// Row is one menu entry. Which fields are set depends on Kind.
type Row struct {
	Kind    RowKind
	Text    string
	Value   string
	Percent float64
	Detail  string
	Color   models.RGB
	Badge   *Badge
	Action  Action
	Key     string
}

type ViewModel struct {
	Status Status
	Reason fetch.Reason
	Tray   Tray
	Menu   []Row
}

// Input is everything a render pass reads. Render holds no state of its own.
type Input struct {
	// Outcome is nil while the first fetch is in flight.
	Outcome *fetch.Outcome
	// LastGood is shown in place of a nil Outcome when present.
	LastGood *models.UsageSnapshot
	// Labels are the provider's tray placeholders, e.g. "5h ..".
	Labels   [2]string
	Display  config.DisplayConfig
	Now      time.Time
	Location *time.Location
}

var actionRows = []Row{
	{Kind: RowAction, Text: "Refresh", Action: ActionRefresh, Key: "r"},
	{Kind: RowAction, Text: "Open Config…", Action: ActionOpenConfig, Key: ","},
	{Kind: RowAction, Text: "Quit", Action: ActionQuit, Key: "q"},
}

// Render builds the view model for in. Equal inputs give equal outputs.
func Render(in Input) ViewModel {
	switch {
	case in.Outcome != nil && in.Outcome.OK():
		return renderSnapshot(*in.Outcome.Snapshot, in)
	case in.Outcome != nil:
		return renderFailure(in.Outcome.Reason, in)
	case in.LastGood != nil:
		return renderSnapshot(*in.LastGood, in)
	default:
		return renderLoading(in)
	}
}

func renderLoading(in Input) ViewModel {
	slots := make([]Slot, 0, len(in.Labels))
	for _, l := range in.Labels {
		if l != "" {
			slots = append(slots, Slot{Label: l})
		}
	}
	menu := []Row{
		{Kind: RowMessage, Text: LoadingText},
		{Kind: RowSeparator},
	}
	return ViewModel{
		Status: StatusLoading,
		Tray: Tray{
			Slots:   slots,
			Tooltip: LoadingText,
			Icon:    Icon{Monochrome: in.Display.MonochromeIcon, Unavailable: true},
		},
		Menu: append(menu, actionRows...),
	}
}

func renderFailure(reason fetch.Reason, in Input) ViewModel {
	slots := make([]Slot, 0, len(in.Labels))
	for _, l := range in.Labels {
		if l == "" {
			continue
		}
		slots = append(slots, Slot{Label: placeholderPrefix(l), Value: Placeholder})
	}
	menu := []Row{
		header(nil),
		{Kind: RowMessage, Text: reason.Message(), Detail: reason.String()},
		{Kind: RowSeparator},
	}
	return ViewModel{
		Status: StatusFailed,
		Reason: reason,
		Tray: Tray{
			Slots:   slots,
			Tooltip: reason.Message(),
			Icon:    Icon{Monochrome: in.Display.MonochromeIcon, Unavailable: true},
		},
		Menu: append(menu, actionRows...),
	}
}

func renderSnapshot(s models.UsageSnapshot, in Input) ViewModel {
	mode := in.Display.DisplayMode

	trayWindows := lo.Filter(s.Windows, func(w models.UsageWindow, _ int) bool { return w.InTray() })
	if len(trayWindows) > 2 {
		trayWindows = trayWindows[:2]
	}
	slots := lo.Map(trayWindows, func(w models.UsageWindow, _ int) Slot {
		p := DisplayPercent(w.Utilization, mode)
		return Slot{Label: w.ShortLabel, Value: FormatPercent(p), Percent: p, Numeric: true}
	})
	tooltip := strings.Join(lo.Map(slots, func(sl Slot, _ int) string { return sl.Text() }), " | ")

	menu := []Row{header(s.Tier)}
	for _, w := range s.Windows {
		p := DisplayPercent(w.Utilization, mode)
		menu = append(menu, Row{
			Kind:    RowWindow,
			Text:    w.Title + "  " + FormatPercent(p),
			Value:   FormatPercent(p),
			Percent: p,
			Detail:  resetDetail(w, in),
			Color:   BarColor(w.Utilization),
		})
	}
	if s.APIUsage != nil {
		menu = append(menu,
			Row{Kind: RowSeparator},
			Row{Kind: RowSection, Text: "Extra Usage"},
			Row{Kind: RowKeyValue, Text: "Spent", Value: s.APIUsage.String()},
		)
	}
	menu = append(menu, Row{Kind: RowSeparator})

	return ViewModel{
		Status: StatusReady,
		Tray: Tray{
			Slots:   slots,
			Tooltip: tooltip,
			Icon:    trayIcon(trayWindows, in.Display),
		},
		Menu: append(menu, actionRows...),
	}
}

func header(tier *models.TierInfo) Row {
	row := Row{Kind: RowHeader, Text: "Usage"}
	if tier != nil {
		row.Badge = &Badge{Text: tier.Name, Color: tier.Color}
	}
	return row
}

// placeholderPrefix turns a loading label like "5h .." into "5h".
func placeholderPrefix(label string) string {
	if i := strings.IndexByte(label, ' '); i > 0 {
		return label[:i]
	}
	return label
}

package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/models"
)

// AbsoluteLayout is the absolute reset time layout, "DD.MM, HH:MM".
const AbsoluteLayout = "02.01, 15:04"

// FormatResetRelative formats the time until a reset as "2d 3h", "1h 30m",
// or "5m". Anything not in the future is "now". Seconds are truncated.
func FormatResetRelative(d time.Duration) string {
	total := int64(d / time.Second)
	if total <= 0 {
		return "now"
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	switch {
	case days > 0:
		return strconv.FormatInt(days, 10) + "d " + strconv.FormatInt(hours, 10) + "h"
	case hours > 0:
		return strconv.FormatInt(hours, 10) + "h " + strconv.FormatInt(minutes, 10) + "m"
	default:
		return strconv.FormatInt(minutes, 10) + "m"
	}
}

// FormatResetAbsolute formats t in loc as "DD.MM, HH:MM".
func FormatResetAbsolute(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(AbsoluteLayout)
}

// DisplayPercent applies the display mode to a utilization value.
func DisplayPercent(utilization float64, mode config.DisplayMode) float64 {
	u := models.ClampPct(utilization)
	if mode.Flip() {
		return 100 - u
	}
	return u
}

// FormatPercent truncates to a whole percent, "42%".
func FormatPercent(p float64) string {
	return strconv.Itoa(int(models.ClampPct(p))) + "%"
}

// ElapsedPercent is how much of the window's period has passed. It reports
// false when the reset time or period is unknown or the reset has passed.
func ElapsedPercent(w models.UsageWindow, now time.Time) (float64, bool) {
	remaining := w.TimeUntilReset(now)
	period := w.Period()
	if remaining == nil || *remaining <= 0 || period <= 0 {
		return 0, false
	}
	elapsed := float64(period-*remaining) / float64(period) * 100
	return lo.Clamp(elapsed, 0, 100), true
}

// resetDetail is the secondary text of a window row, e.g.
// "resets in 2h 30m (50%)" or "reset: 13.02, 14:00".
func resetDetail(w models.UsageWindow, in Input) string {
	if w.ResetsAt == nil {
		return ""
	}
	var detail string
	switch in.Display.ResetTimeFormat {
	case config.ResetAbsolute:
		detail = "reset: " + FormatResetAbsolute(*w.ResetsAt, in.Location)
	default:
		detail = "resets in " + FormatResetRelative(w.ResetsAt.Sub(in.Now))
	}
	if in.Display.ShowPeriodPercentage {
		if elapsed, ok := ElapsedPercent(w, in.Now); ok {
			detail += fmt.Sprintf(" (%s)", FormatPercent(DisplayPercent(elapsed, in.Display.DisplayMode)))
		}
	}
	return detail
}

package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/models"
)

// Bar colors by severity of utilization.
var (
	barNormal = models.RGB{R: 204, G: 204, B: 204}
	barYellow = models.RGB{R: 255, G: 204, B: 0}
	barOrange = models.RGB{R: 255, G: 149, B: 0}
	barRed    = models.RGB{R: 255, G: 59, B: 48}
)

// Icon gradient stops.
var (
	gaugeLow  = models.RGB{R: 52, G: 199, B: 89}
	gaugeMid  = models.RGB{R: 255, G: 204, B: 0}
	gaugeHigh = models.RGB{R: 255, G: 59, B: 48}
)

// BarColor picks a progress bar color from percent used.
func BarColor(utilization float64) models.RGB {
	switch u := models.ClampPct(utilization); {
	case u < 50:
		return barNormal
	case u < 75:
		return barYellow
	case u < 90:
		return barOrange
	default:
		return barRed
	}
}

// GaugeColor blends green through yellow to red in Lab space as
// utilization goes from 0 to 100.
func GaugeColor(utilization float64) models.RGB {
	t := models.ClampPct(utilization) / 100
	low, mid, high := gaugeLow.Colorful(), gaugeMid.Colorful(), gaugeHigh.Colorful()
	var c colorful.Color
	if t < 0.5 {
		c = low.BlendLab(mid, t*2)
	} else {
		c = mid.BlendLab(high, (t-0.5)*2)
	}
	return models.RGBFromColorful(c)
}

// trayIcon fills the gauge to the fullest tray window's displayed percent.
// The color always tracks how much is used, so in remaining mode a full
// gauge is green.
func trayIcon(windows []models.UsageWindow, d config.DisplayConfig) Icon {
	icon := Icon{Monochrome: d.MonochromeIcon}
	if len(windows) == 0 {
		return icon
	}
	worst := lo.MaxBy(windows, func(a, b models.UsageWindow) bool { return a.Utilization > b.Utilization })
	icon.Fill = DisplayPercent(worst.Utilization, d.DisplayMode) / 100
	if !d.MonochromeIcon {
		icon.Color = GaugeColor(worst.Utilization)
	}
	return icon
}

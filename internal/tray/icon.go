package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/joshuadavidthomas/liment/internal/render"
)

// IconSize is the edge length of the generated gauge in pixels.
const IconSize = 22

var (
	mono   = color.NRGBA{A: 255}
	trough = color.NRGBA{R: 128, G: 128, B: 128, A: 110}
)

// GaugePNG draws a ring gauge filled clockwise from the top to icon.Fill.
// Monochrome icons are black on transparent so macOS can template them.
func GaugePNG(icon render.Icon, size int) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	fillColor := mono
	if !icon.Monochrome {
		fillColor = color.NRGBA{R: icon.Color.R, G: icon.Color.G, B: icon.Color.B, A: 255}
	}
	troughColor := trough
	if icon.Unavailable {
		troughColor.A = 60
	}

	c := float64(size-1) / 2
	outer := float64(size) / 2
	inner := outer * 0.55
	sweep := icon.Fill * 2 * math.Pi

	for y := range size {
		for x := range size {
			dx, dy := float64(x)-c, float64(y)-c
			r := math.Hypot(dx, dy)
			if r > outer || r < inner {
				continue
			}
			// Angle from 12 o'clock, clockwise.
			a := math.Atan2(dx, -dy)
			if a < 0 {
				a += 2 * math.Pi
			}
			if !icon.Unavailable && a <= sweep {
				img.SetNRGBA(x, y, fillColor)
			} else {
				img.SetNRGBA(x, y, troughColor)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapICO packs a PNG into a single-image ICO container, which Windows
// accepts for tray icons.
func wrapICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{dim, dim, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(pngData)), 6 + 16})
	buf.Write(pngData)
	return buf.Bytes()
}

package kiosk

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const defaultFaceWidth = 24

// asciiRamp orders glyphs from dark to light for colorless previews.
const asciiRamp = " .:-=+*#%@"

// renderFace draws an encoded image as terminal cells, width cells wide.
// Colored output packs two pixel rows per cell with upper half blocks.
func renderFace(data []byte, width int, noColor bool) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode face image: %w", err)
	}
	if width <= 0 {
		width = defaultFaceWidth
	}
	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", nil
	}
	if bounds.Dx() < width {
		width = bounds.Dx()
	}
	height := int(float64(bounds.Dy()) * float64(width) / float64(bounds.Dx()))
	if height < 2 {
		height = 2
	}
	if height%2 == 1 {
		height++
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)

	var b strings.Builder
	for y := 0; y < height; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			top := scaled.RGBAAt(x, y)
			bottom := scaled.RGBAAt(x, y+1)
			if noColor {
				b.WriteByte(asciiRamp[rampIndex(top, bottom)])
				continue
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render("▀"))
		}
	}
	return b.String(), nil
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// rampIndex maps the mean luminance of two pixels onto asciiRamp.
func rampIndex(top, bottom color.RGBA) int {
	luma := (luminance(top) + luminance(bottom)) / 2
	idx := int(luma / 256 * float64(len(asciiRamp)))
	if idx >= len(asciiRamp) {
		idx = len(asciiRamp) - 1
	}
	return idx
}

func luminance(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

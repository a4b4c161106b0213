package output

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Quason/scene-classification/internal/classification"
	"github.com/Quason/scene-classification/internal/properties"
	"github.com/fogleman/gg"
)

const (
	legendRowHeight = 20
	legendBox       = 15
	legendMargin    = 10
	legendMinWidth  = 220
)

func classColor(code uint8) color.RGBA {
	c, ok := properties.ClassColors[code]
	if !ok {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ClassImage renders the class map one pixel per cell.
func ClassImage(m *classification.ClassMap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Cols, m.Rows))
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			img.SetRGBA(c, r, classColor(m.At(r, c)))
		}
	}
	return img
}

// WriteQuicklook saves a PNG of the class map with a legend of the classes
// present below it.
func WriteQuicklook(path string, m *classification.ClassMap) error {
	var present []classification.ClassCount
	for _, s := range m.Stats() {
		if s.Pixels > 0 {
			present = append(present, s)
		}
	}

	width := max(m.Cols, legendMinWidth)
	height := m.Rows + legendMargin + len(present)*legendRowHeight

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(ClassImage(m), 0, 0)

	for i, s := range present {
		x := float64(legendMargin)
		y := float64(m.Rows + legendMargin + i*legendRowHeight)

		c := classColor(s.Code)
		dc.SetRGB255(int(c.R), int(c.G), int(c.B))
		dc.DrawRectangle(x, y, legendBox, legendBox)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(x, y, legendBox, legendBox)
		dc.SetLineWidth(1)
		dc.Stroke()

		dc.DrawStringAnchored(fmt.Sprintf("%s %.1f%%", s.Name, s.Fraction*100), x+legendBox+5, y+legendBox/2, 0, 0.5)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save quicklook: %w", err)
	}
	return nil
}

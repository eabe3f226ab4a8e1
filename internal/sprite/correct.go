package sprite

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Corrected returns p with brightness (percent, -100 to 100) and gamma
// applied. Slot 0 stays transparent.
func (p Palette) Corrected(brightness, gamma float64) Palette {
	if brightness == 0 && (gamma == 0 || gamma == 1) {
		return p
	}

	strip := image.NewNRGBA(image.Rect(0, 0, PaletteSize, 1))
	for i, c := range p {
		strip.SetNRGBA(i, 0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}

	var img *image.NRGBA = strip
	if brightness != 0 {
		img = imaging.AdjustBrightness(img, brightness)
	}
	if gamma > 0 && gamma != 1 {
		img = imaging.AdjustGamma(img, gamma)
	}

	out := p
	for i := 1; i < PaletteSize; i++ {
		c := img.NRGBAAt(i, 0)
		out[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	return out
}

package overlay

import (
	"image"
	"image/color"
)

// Splash colours.
var (
	splashTitleColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	splashStageColor = color.RGBA{R: 0x66, G: 0x66, B: 0x00, A: 0xff}
)

// SplashTitle is the first line of the boot splash.
const SplashTitle = "jinglemansweep"

// Splash returns the boot frame: the title and a loading line showing the
// current stage.
func Splash(width, height int, stage string) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))

	NewLabel(5, 5, SplashTitle, splashTitleColor).Draw(frame)

	text := "loading..."
	if stage != "" {
		text = stage + "..."
	}
	NewLabel(5, height-9, text, splashStageColor).Draw(frame)

	return frame
}

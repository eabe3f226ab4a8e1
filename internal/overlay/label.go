package overlay

import (
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DefaultColor is used when a label has no colour of its own.
var DefaultColor = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}

// Label is a line of text anchored at its top-left corner.
type Label struct {
	X, Y   int
	Text   string
	Color  color.Color
	Face   font.Face
	Hidden bool
}

// NewLabel creates a visible label using Tiny.
func NewLabel(x, y int, text string, c color.Color) *Label {
	return &Label{X: x, Y: y, Text: text, Color: c, Face: Tiny}
}

// Draw renders the label onto dst. Hidden labels draw nothing.
func (l *Label) Draw(dst draw.Image) {
	if l == nil || l.Hidden || l.Text == "" {
		return
	}
	face := l.Face
	if face == nil {
		face = Tiny
	}
	c := l.Color
	if c == nil {
		c = DefaultColor
	}

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(l.X, l.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(l.Text)
}

// Width returns the rendered width of the label in pixels.
func (l *Label) Width() int {
	face := l.Face
	if face == nil {
		face = Tiny
	}
	return font.MeasureString(face, l.Text).Ceil()
}

// Style is the shared look of clock and calendar labels.
type Style struct {
	Color   color.Color
	Visible bool
}

// TimeLabel shows a time.Time formatted with a layout.
type TimeLabel struct {
	Label
	layout string
}

// Clock layout and calendar layout.
const (
	ClockLayout    = "15:04"
	CalendarLayout = "02/01"
)

// NewClock creates a 24-hour HH:MM label.
func NewClock(x, y int) *TimeLabel {
	return &TimeLabel{Label: *NewLabel(x, y, "", DefaultColor), layout: ClockLayout}
}

// NewCalendar creates a DD/MM label.
func NewCalendar(x, y int) *TimeLabel {
	return &TimeLabel{Label: *NewLabel(x, y, "", DefaultColor), layout: CalendarLayout}
}

// Tick refreshes the text from now and applies the style.
func (t *TimeLabel) Tick(now time.Time, style Style) {
	t.Text = now.Format(t.layout)
	t.Hidden = !style.Visible
	if style.Color != nil {
		t.Color = style.Color
	}
}

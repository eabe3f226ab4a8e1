package overlay

import (
	"image"
	"image/color"
	"testing"
	"time"
)

var red = color.RGBA{R: 0xff, A: 0xff}

func TestLabel_DrawsGlyph(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 16, 8))
	NewLabel(2, 1, "1", red).Draw(dst)

	// '1' is .#. / ##. / .#. / .#. / ###
	tests := []struct {
		x, y int
		lit  bool
	}{
		{x: 3, y: 1, lit: true},
		{x: 2, y: 1, lit: false},
		{x: 2, y: 2, lit: true},
		{x: 2, y: 5, lit: true},
		{x: 4, y: 5, lit: true},
		{x: 3, y: 6, lit: false},
	}
	for _, tt := range tests {
		got := dst.RGBAAt(tt.x, tt.y) == red
		if got != tt.lit {
			t.Errorf("pixel (%d,%d) lit = %v, want %v", tt.x, tt.y, got, tt.lit)
		}
	}
}

func TestLabel_LowercaseUsesUppercaseGlyphs(t *testing.T) {
	upper := image.NewRGBA(image.Rect(0, 0, 16, 8))
	lower := image.NewRGBA(image.Rect(0, 0, 16, 8))

	NewLabel(0, 0, "AZ", red).Draw(upper)
	NewLabel(0, 0, "az", red).Draw(lower)

	for i := range upper.Pix {
		if upper.Pix[i] != lower.Pix[i] {
			t.Fatal("lowercase text should render like uppercase")
		}
	}
}

func TestLabel_Hidden(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 16, 8))
	l := NewLabel(0, 0, "88", red)
	l.Hidden = true
	l.Draw(dst)

	for _, p := range dst.Pix {
		if p != 0 {
			t.Fatal("hidden label drew pixels")
		}
	}
}

func TestLabel_Width(t *testing.T) {
	if got := NewLabel(0, 0, "12:34", red).Width(); got != 20 {
		t.Errorf("Width() = %d, want 20", got)
	}
}

func TestTimeLabel_Tick(t *testing.T) {
	now := time.Date(2022, 11, 4, 21, 46, 57, 0, time.UTC)

	tests := []struct {
		name  string
		label *TimeLabel
		want  string
	}{
		{name: "clock", label: NewClock(33, 2), want: "21:46"},
		{name: "calendar", label: NewCalendar(0, 2), want: "04/11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.label.Tick(now, Style{Color: red, Visible: true})
			if tt.label.Text != tt.want {
				t.Errorf("Text = %q, want %q", tt.label.Text, tt.want)
			}
			if tt.label.Hidden {
				t.Error("label should be visible")
			}
			if tt.label.Color != color.Color(red) {
				t.Errorf("Color = %v, want %v", tt.label.Color, red)
			}

			tt.label.Tick(now, Style{Visible: false})
			if !tt.label.Hidden {
				t.Error("label should be hidden")
			}
			if tt.label.Color != color.Color(red) {
				t.Error("a nil style colour should keep the previous colour")
			}
		})
	}
}

func TestClock_FitsRightHalf(t *testing.T) {
	c := NewClock(33, 2)
	c.Tick(time.Date(2022, 1, 1, 23, 59, 0, 0, time.UTC), Style{Visible: true})
	if right := c.X + c.Width(); right > 64 {
		t.Errorf("clock ends at x=%d, past a 64 pixel panel", right)
	}
}

func TestSplash(t *testing.T) {
	frame := Splash(64, 32, "themes")

	if frame.Bounds() != image.Rect(0, 0, 64, 32) {
		t.Fatalf("Bounds() = %v", frame.Bounds())
	}

	lit := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if frame.RGBAAt(x, y).A != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("splash frame is empty")
	}
}

package display

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

const halfBlock = "▀"

// Terminal renders frames as coloured half blocks.
type Terminal struct {
	mu      sync.Mutex
	out     *termenv.Output
	started bool
}

// NewTerminal creates a terminal surface writing to w.
func NewTerminal(w io.Writer, opts ...termenv.OutputOption) *Terminal {
	return &Terminal{out: termenv.NewOutput(w, opts...)}
}

// Present implements Surface.
func (t *Terminal) Present(frame *image.RGBA) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		t.out.HideCursor()
		t.out.ClearScreen()
		t.started = true
	}
	t.out.MoveCursor(1, 1)

	if _, err := io.WriteString(t.out, t.render(frame)); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// render builds one text row per pair of pixel rows.
func (t *Terminal) render(frame *image.RGBA) string {
	b := frame.Bounds()
	var sb strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := frame.RGBAAt(x, y)
			bottom := color.RGBA{}
			if y+1 < b.Max.Y {
				bottom = frame.RGBAAt(x, y+1)
			}
			cell := t.out.String(halfBlock).
				Foreground(t.out.Color(hex(top))).
				Background(t.out.Color(hex(bottom)))
			sb.WriteString(cell.String())
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}

// Close restores the cursor.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		t.out.Reset()
		t.out.ShowCursor()
		t.started = false
	}
	return nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

package display

import (
	"fmt"
	"image"
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
)

// Surface receives finished frames.
type Surface interface {
	Present(frame *image.RGBA) error
	Close() error
}

// Null discards frames and counts them.
type Null struct {
	frames atomic.Uint64
	last   atomic.Pointer[image.RGBA]
}

// NewNull creates a Null surface.
func NewNull() *Null {
	return &Null{}
}

// Present implements Surface.
func (n *Null) Present(frame *image.RGBA) error {
	n.frames.Add(1)
	n.last.Store(frame)
	return nil
}

// Close implements Surface.
func (n *Null) Close() error {
	return nil
}

// Frames returns how many frames were presented.
func (n *Null) Frames() uint64 {
	return n.frames.Load()
}

// Last returns the most recent frame, or nil.
func (n *Null) Last() *image.RGBA {
	return n.last.Load()
}

// Open selects a surface for cfg.Display. "auto" uses the terminal when
// out is a TTY.
func Open(cfg config.MatrixConfig, out *os.File) (Surface, error) {
	switch cfg.Display {
	case "none":
		return NewNull(), nil
	case "terminal":
		return NewTerminal(out), nil
	case "auto", "":
		if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
			return NewTerminal(out), nil
		}
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDisplay, cfg.Display)
	}
}

//go:build linux

package input

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

const consumer = "matrixportal"

// GPIO reads buttons wired between GPIO lines and ground.
type GPIO struct {
	lines   *gpiocdev.Lines
	buttons map[int]theme.ButtonID
	slot    *Slot
}

// OpenGPIO requests cfg.Lines as pulled-up inputs with falling edge
// detection. Line i reports button id i.
func OpenGPIO(cfg config.ButtonsConfig) (*GPIO, error) {
	g := &GPIO{
		buttons: make(map[int]theme.ButtonID, len(cfg.Lines)),
		slot:    NewSlot(),
	}
	for i, offset := range cfg.Lines {
		g.buttons[offset] = theme.ButtonID(i)
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.WithConsumer(consumer),
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(g.handle),
	}
	if cfg.Debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(cfg.Debounce))
	}

	lines, err := gpiocdev.RequestLines(cfg.Chip, cfg.Lines, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %v: %w", ErrGPIOUnavailable, cfg.Chip, cfg.Lines, err)
	}
	g.lines = lines
	return g, nil
}

func (g *GPIO) handle(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}
	if id, ok := g.buttons[evt.Offset]; ok {
		g.slot.Set(id)
	}
}

// Poll implements Keys.
func (g *GPIO) Poll() (theme.ButtonID, bool) {
	return g.slot.Take()
}

// Close releases the lines.
func (g *GPIO) Close() error {
	if g.lines == nil {
		return nil
	}
	return g.lines.Close()
}

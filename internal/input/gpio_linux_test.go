//go:build linux

package input

import (
	"testing"

	"github.com/warthog618/go-gpiocdev"

	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

func TestGPIO_HandleFallingEdge(t *testing.T) {
	g := &GPIO{
		buttons: map[int]theme.ButtonID{2: 0, 3: 1},
		slot:    NewSlot(),
	}

	g.handle(gpiocdev.LineEvent{Offset: 3, Type: gpiocdev.LineEventRisingEdge})
	if _, ok := g.Poll(); ok {
		t.Error("rising edge should not register a press")
	}

	g.handle(gpiocdev.LineEvent{Offset: 9, Type: gpiocdev.LineEventFallingEdge})
	if _, ok := g.Poll(); ok {
		t.Error("unknown line should not register a press")
	}

	g.handle(gpiocdev.LineEvent{Offset: 3, Type: gpiocdev.LineEventFallingEdge})
	id, ok := g.Poll()
	if !ok || id != 1 {
		t.Errorf("Poll() = %d, %v; want 1, true", id, ok)
	}
}

package input

import (
	"sync/atomic"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// Keys is a source of button presses.
type Keys interface {
	// Poll returns the latest unconsumed press without blocking.
	Poll() (theme.ButtonID, bool)
	Close() error
}

// Noop never reports a press.
type Noop struct{}

// Poll implements Keys.
func (Noop) Poll() (theme.ButtonID, bool) { return 0, false }

// Close implements Keys.
func (Noop) Close() error { return nil }

// Slot holds at most one pending press. Set overwrites.
type Slot struct {
	v atomic.Int64
}

const emptySlot = -1

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	s := &Slot{}
	s.v.Store(emptySlot)
	return s
}

// Set records a press.
func (s *Slot) Set(id theme.ButtonID) {
	s.v.Store(int64(id))
}

// Take returns and clears the pending press.
func (s *Slot) Take() (theme.ButtonID, bool) {
	v := s.v.Swap(emptySlot)
	if v == emptySlot {
		return 0, false
	}
	return theme.ButtonID(v), true
}

// Open returns GPIO keys when buttons are enabled, else Noop.
func Open(cfg config.ButtonsConfig) (Keys, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	return OpenGPIO(cfg)
}

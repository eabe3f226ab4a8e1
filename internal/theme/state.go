package theme

import (
	"image/color"
	"time"

	"github.com/nerrad567/matrix-portal-core/internal/overlay"
)

// ButtonID identifies a physical or remote button.
type ButtonID int

// State is the shared per-run-time state.
//
// The run-time owns the only mutable copy and guards it with its lock;
// themes get a value copy each tick.
type State struct {
	// Frame counts ticks since the run-time started.
	Frame uint64

	// ActiveTheme is the index of the active theme.
	ActiveTheme int

	// PendingButton is valid when HasPending is set.
	PendingButton ButtonID
	HasPending    bool

	Blanked     bool
	TimeVisible bool
	DateVisible bool

	// Now is the clock reading for this tick.
	Now time.Time
}

// NewState returns the initial state of a run-time.
func NewState() State {
	return State{
		TimeVisible: true,
		DateVisible: true,
	}
}

// Press records a button. A press that has not been consumed yet is
// overwritten.
func (s *State) Press(id ButtonID) {
	s.PendingButton = id
	s.HasPending = true
}

// TakeButton returns and clears the pending button.
func (s *State) TakeButton() (ButtonID, bool) {
	if !s.HasPending {
		return 0, false
	}
	id := s.PendingButton
	s.PendingButton, s.HasPending = 0, false
	return id, true
}

// LabelStyles derives the clock and calendar styles from the state and the
// labels entity.
func LabelStyles(state State, entities EntityReader) (clock, calendar overlay.Style) {
	c := overlay.DefaultColor
	on := true
	if entities != nil {
		on = entities.IsOn(EntityLabels)
		if rgb, ok := entities.Color(EntityLabels); ok {
			c = rgb
		}
		if level, ok := entities.Brightness(EntityLabels); ok {
			c = dim(c, level)
		}
	}
	clock = overlay.Style{Color: c, Visible: on && state.TimeVisible}
	calendar = overlay.Style{Color: c, Visible: on && state.DateVisible}
	return clock, calendar
}

// dim scales the colour channels by level/255. Alpha is kept.
func dim(c color.RGBA, level uint8) color.RGBA {
	scale := func(v uint8) uint8 { return uint8(uint16(v) * uint16(level) / 255) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

package themes

import (
	"image"

	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// Simple shows the clock and calendar on a black frame.
type Simple struct {
	theme.Base
	labels *labels
}

// NewSimple is the Factory for the simple theme.
func NewSimple(deps theme.Deps) theme.Theme {
	return &Simple{Base: theme.NewBase(NameSimple, deps)}
}

// Setup implements theme.Theme.
func (s *Simple) Setup() error {
	s.labels = newLabels()
	return nil
}

// Teardown implements theme.Theme.
func (s *Simple) Teardown() {
	s.labels = nil
	s.Base.Teardown()
}

// Tick implements theme.Theme.
func (s *Simple) Tick(state theme.State, entities theme.EntityReader) {
	if s.labels == nil {
		return
	}
	s.labels.tick(state, entities)
}

// Render implements theme.Theme.
func (s *Simple) Render() *image.RGBA {
	frame := s.Canvas()
	if s.labels != nil {
		s.labels.draw(frame)
	}
	return frame
}

package hass

import (
	"image/color"
)

// IsOn reports whether the named entity is on. Unknown entities count as on
// so that a missing power switch never blanks the display.
func (r *Registry) IsOn(name string) bool {
	e, ok := r.Get(name)
	if !ok {
		return true
	}
	return e.IsOn()
}

// Color returns the named entity's rgb colour.
func (r *Registry) Color(name string) (color.RGBA, bool) {
	e, ok := r.Get(name)
	if !ok {
		return color.RGBA{}, false
	}
	return e.Color()
}

// Brightness returns the named entity's brightness.
func (r *Registry) Brightness(name string) (uint8, bool) {
	e, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return e.Brightness()
}

// Snapshot returns a copy of every entity's state keyed by name.
func (r *Registry) Snapshot() map[string]State {
	names := r.Names()
	out := make(map[string]State, len(names))
	for _, name := range names {
		if e, ok := r.Get(name); ok {
			out[name] = e.State()
		}
	}
	return out
}

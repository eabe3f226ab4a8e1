package hass

import (
	"fmt"
	"image/color"
	"maps"
	"strings"
	"sync"
)

// Class is the Home Assistant component type of an entity.
type Class string

// Supported entity classes.
const (
	ClassSwitch Class = "switch"
	ClassLight  Class = "light"
)

// Common state keys and values.
const (
	KeyState      = "state"
	KeyColor      = "color"
	KeyBrightness = "brightness"

	StateOn  = "ON"
	StateOff = "OFF"
)

// State is an entity state map.
type State map[string]any

// Entity is a virtual device bridged onto the bus.
//
// Only the Registry mutates an Entity; everything else reads it.
type Entity struct {
	Name     string
	Class    Class
	UniqueID string

	ConfigTopic  string
	CommandTopic string
	StateTopic   string

	options map[string]any

	mu    sync.RWMutex
	state State
}

// State returns a copy of the entity's current state.
func (e *Entity) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.state)
}

// Get returns one state value.
func (e *Entity) Get(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.state[key]
	return v, ok
}

// IsOn reports whether the "state" key is ON. An unset state counts as on
// and OFF is matched case-insensitively.
func (e *Entity) IsOn() bool {
	v, ok := e.Get(KeyState)
	if !ok {
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(fmt.Sprint(v)), StateOff)
}

// Color returns the entity's rgb colour, if it has one.
func (e *Entity) Color() (color.RGBA, bool) {
	v, ok := e.Get(KeyColor)
	if !ok {
		return color.RGBA{}, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return color.RGBA{}, false
	}
	r, rok := channel(m["r"])
	g, gok := channel(m["g"])
	b, bok := channel(m["b"])
	if !rok || !gok || !bok {
		return color.RGBA{}, false
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
}

// Brightness returns the 0-255 brightness, if set.
func (e *Entity) Brightness() (uint8, bool) {
	v, ok := e.Get(KeyBrightness)
	if !ok {
		return 0, false
	}
	return channel(v)
}

// merge applies partial over the current state and returns a copy of the result.
func (e *Entity) merge(partial State) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	maps.Copy(e.state, partial)
	return maps.Clone(e.state)
}

// statePayload encodes the state for the state topic.
func (e *Entity) statePayload(state State) ([]byte, error) {
	if e.Class == ClassSwitch {
		v, ok := state[KeyState]
		if !ok {
			return []byte{}, nil
		}
		return []byte(fmt.Sprint(v)), nil
	}
	return marshalState(state)
}

// channel converts a decoded JSON number (or Go integer) to a colour channel.
func channel(v any) (uint8, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint8:
		return x, true
	default:
		return 0, false
	}
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return uint8(n), true
}

package hass

import (
	"context"
	"image/color"
	"testing"
)

func TestRegistryView(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	if _, err := reg.Register(ctx, "power", ClassSwitch, nil, State{KeyState: StateOff}); err != nil {
		t.Fatalf("Register(power) error = %v", err)
	}
	labels := State{
		KeyState:      StateOn,
		KeyColor:      map[string]any{"r": 17, "g": 34, "b": 51},
		KeyBrightness: 128,
	}
	if _, err := reg.Register(ctx, "labels", ClassLight, nil, labels); err != nil {
		t.Fatalf("Register(labels) error = %v", err)
	}

	if reg.IsOn("power") {
		t.Error("IsOn(power) = true, want false")
	}
	if !reg.IsOn("labels") {
		t.Error("IsOn(labels) = false, want true")
	}
	if !reg.IsOn("missing") {
		t.Error("IsOn(missing) = false, want true for unknown entities")
	}

	c, ok := reg.Color("labels")
	if !ok || c != (color.RGBA{R: 17, G: 34, B: 51, A: 0xff}) {
		t.Errorf("Color(labels) = %v, %v", c, ok)
	}
	if _, ok := reg.Color("power"); ok {
		t.Error("Color(power) should not be set")
	}

	if b, ok := reg.Brightness("labels"); !ok || b != 128 {
		t.Errorf("Brightness(labels) = %d, %v; want 128, true", b, ok)
	}

	snap := reg.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() has %d entities, want 2", len(snap))
	}
	if snap["power"][KeyState] != StateOff {
		t.Errorf("Snapshot power state = %v", snap["power"][KeyState])
	}
}

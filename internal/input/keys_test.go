package input

import (
	"testing"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
)

func TestSlot_KeepsLatestPress(t *testing.T) {
	s := NewSlot()

	if _, ok := s.Take(); ok {
		t.Fatal("new slot should be empty")
	}

	s.Set(0)
	s.Set(1)

	id, ok := s.Take()
	if !ok || id != 1 {
		t.Errorf("Take() = %d, %v; want 1, true", id, ok)
	}
	if _, ok := s.Take(); ok {
		t.Error("slot should be empty after Take()")
	}
}

func TestOpen_DisabledIsNoop(t *testing.T) {
	keys, err := Open(config.ButtonsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := keys.(Noop); !ok {
		t.Errorf("Open() = %T, want Noop", keys)
	}
	if _, pressed := keys.Poll(); pressed {
		t.Error("Noop should never report a press")
	}
	if err := keys.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

//go:build !linux

package input

import (
	"fmt"
	"runtime"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// GPIO is unavailable off Linux.
type GPIO struct{}

// OpenGPIO always fails off Linux.
func OpenGPIO(cfg config.ButtonsConfig) (*GPIO, error) {
	return nil, fmt.Errorf("%w: %s on %s", ErrGPIOUnavailable, cfg.Chip, runtime.GOOS)
}

// Poll implements Keys.
func (*GPIO) Poll() (theme.ButtonID, bool) { return 0, false }

// Close implements Keys.
func (*GPIO) Close() error { return nil }

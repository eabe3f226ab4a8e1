package display

import "errors"

// ErrUnknownDisplay indicates an unsupported display setting.
var ErrUnknownDisplay = errors.New("display: unknown display")

package input

import "errors"

// ErrGPIOUnavailable indicates the button lines could not be requested.
var ErrGPIOUnavailable = errors.New("input: gpio unavailable")

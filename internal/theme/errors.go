package theme

import "errors"

// ErrUnknownTheme indicates a theme name with no registered factory.
var ErrUnknownTheme = errors.New("theme: unknown theme")

package manager

import "errors"

var (
	// ErrNoThemes is returned by New when the theme list is empty.
	ErrNoThemes = errors.New("manager: at least one theme is required")

	// ErrNoBus is returned by New when the bus or the entity registry is missing.
	ErrNoBus = errors.New("manager: bus and registry are required")

	// ErrTaskPanic wraps a panic recovered from a run-time task.
	ErrTaskPanic = errors.New("manager: task panicked")

	// ErrInvalidCommand indicates a remote command payload that cannot be applied.
	ErrInvalidCommand = errors.New("manager: invalid command")
)

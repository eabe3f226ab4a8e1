package database

import "errors"

// ErrNoPath indicates an empty database path.
var ErrNoPath = errors.New("database: path is required")

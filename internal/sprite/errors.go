package sprite

import "errors"

// Sentinel errors for sprite operations.
var (
	// ErrInvalidSheet indicates the sheet text is malformed.
	ErrInvalidSheet = errors.New("sprite: invalid sheet")

	// ErrUnknownTile indicates a tile id that is not on the sheet.
	ErrUnknownTile = errors.New("sprite: unknown tile")
)

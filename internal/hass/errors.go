package hass

import "errors"

// Domain errors for the hass package.
var (
	// ErrEntityExists is returned when registering a name twice.
	ErrEntityExists = errors.New("hass: entity already exists")

	// ErrEntityNotFound is returned when updating an unknown entity.
	ErrEntityNotFound = errors.New("hass: entity not found")

	// ErrInvalidEntity is returned when a name or class is empty.
	ErrInvalidEntity = errors.New("hass: invalid entity")

	// ErrInvalidPayload is returned when a command payload cannot be decoded.
	ErrInvalidPayload = errors.New("hass: invalid command payload")

	// ErrNoHistory is returned when no state has been persisted for an entity.
	ErrNoHistory = errors.New("hass: no state history")
)

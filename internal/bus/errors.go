package bus

import "errors"

var (
	// ErrNoTransport is returned when an Adapter is built without a transport.
	ErrNoTransport = errors.New("bus: transport is required")

	// ErrInboxFull is reported to the transport when an inbound message is dropped.
	ErrInboxFull = errors.New("bus: inbox full, message dropped")
)

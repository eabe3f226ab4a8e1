package timesync

import "errors"

var (
	// ErrInvalidTimestamp is returned when a timestamp cannot be parsed.
	ErrInvalidTimestamp = errors.New("timesync: invalid timestamp")

	// ErrFetchFailed is returned when the time service cannot be reached.
	ErrFetchFailed = errors.New("timesync: fetch failed")
)

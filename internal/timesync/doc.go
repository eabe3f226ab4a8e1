// Package timesync keeps the display clock in step with a network time
// service.
//
// The service returns a local timestamp such as
//
//	2022-11-04 21:46:57.174 308 5 +0000 UTC
//
// of which only the date and the whole-second time are used. ParseTimestamp
// turns it into calendar Fields and Clock.SetFields moves the settable clock
// to that reading. The run-time's time-sync task repeats this once per
// configured interval.
package timesync

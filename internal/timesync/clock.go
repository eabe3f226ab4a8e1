package timesync

import (
	"sync"
	"time"
)

// Clock is a settable real-time clock.
//
// It keeps an offset from the host clock, so setting it never touches the
// system time. Safe for concurrent use.
type Clock struct {
	mu       sync.RWMutex
	offset   time.Duration
	loc      *time.Location
	lastSync time.Time
	synced   bool

	// now is the host clock, replaceable in tests.
	now func() time.Time
}

// NewClock returns a clock reading host time in loc.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// Now returns the current clock reading.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().Add(c.offset).In(c.loc)
}

// Location returns the clock's timezone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Set moves the clock so that it reads t now.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	host := c.now()
	c.offset = t.Sub(host)
	c.lastSync = host
	c.synced = true
}

// SetFields sets the clock from calendar fields interpreted in the clock's zone.
func (c *Clock) SetFields(f Fields) {
	c.Set(f.Time(c.loc))
}

// LastSync returns the host time of the last Set, and whether one happened.
func (c *Clock) LastSync() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSync, c.synced
}

// Offset returns the current offset from the host clock.
func (c *Clock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

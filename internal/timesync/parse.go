package timesync

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Fields are the calendar fields of a timestamp.
type Fields struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Time returns the fields as a time in loc.
func (f Fields) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(f.Year, time.Month(f.Month), f.Day, f.Hour, f.Minute, f.Second, 0, loc)
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM:SS[.fff] ..." into Fields.
//
// Everything after the time token is ignored. Fractional seconds are
// truncated.
func ParseTimestamp(s string) (Fields, error) {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return Fields{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	date, err := splitInts(parts[0], "-")
	if err != nil {
		return Fields{}, fmt.Errorf("%w: date %q: %w", ErrInvalidTimestamp, parts[0], err)
	}

	clock, _, _ := strings.Cut(parts[1], ".")
	hms, err := splitInts(clock, ":")
	if err != nil {
		return Fields{}, fmt.Errorf("%w: time %q: %w", ErrInvalidTimestamp, parts[1], err)
	}

	f := Fields{
		Year:   date[0],
		Month:  date[1],
		Day:    date[2],
		Hour:   hms[0],
		Minute: hms[1],
		Second: hms[2],
	}
	if err := f.validate(); err != nil {
		return Fields{}, fmt.Errorf("%w: %q: %w", ErrInvalidTimestamp, s, err)
	}
	return f, nil
}

func (f Fields) validate() error {
	switch {
	case f.Month < 1 || f.Month > 12:
		return fmt.Errorf("month %d out of range", f.Month)
	case f.Day < 1 || f.Day > 31:
		return fmt.Errorf("day %d out of range", f.Day)
	case f.Hour < 0 || f.Hour > 23:
		return fmt.Errorf("hour %d out of range", f.Hour)
	case f.Minute < 0 || f.Minute > 59:
		return fmt.Errorf("minute %d out of range", f.Minute)
	case f.Second < 0 || f.Second > 60:
		return fmt.Errorf("second %d out of range", f.Second)
	}
	return nil
}

// splitInts splits s on sep into exactly three integers.
func splitInts(s, sep string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return out, fmt.Errorf("want 3 parts, got %d", len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, err
		}
		out[i] = n
	}
	return out, nil
}

// Package tz models named, fixed UTC offsets. There are no daylight-saving
// or calendar rules: an offset is a display name plus signed hours and minutes.
package tz

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeZone is returned when an offset cannot be constructed.
var ErrInvalidTimeZone = errors.New("invalid time zone")

const (
	minOffset = -12 * time.Hour
	maxOffset = 14 * time.Hour
)

// FixedOffset is an immutable named UTC offset. The zero value is not a valid
// offset; build one with New or UTC.
type FixedOffset struct {
	name    string
	hours   int
	minutes int
	offset  time.Duration
}

// New validates and builds a FixedOffset. When hours is non-zero the minutes
// take the sign of the hours, so New("X", -5, 30) is five and a half hours
// behind UTC.
func New(name string, hours, minutes int) (FixedOffset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FixedOffset{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidTimeZone)
	}
	if minutes > 59 || minutes < -59 {
		return FixedOffset{}, fmt.Errorf("%w: minute offset must be between -59 and 59", ErrInvalidTimeZone)
	}
	if hours > 14 || hours < -12 {
		return FixedOffset{}, fmt.Errorf("%w: offset must be between -12:00 and +14:00", ErrInvalidTimeZone)
	}

	offset := combine(hours, minutes)
	if offset < minOffset || offset > maxOffset {
		return FixedOffset{}, fmt.Errorf("%w: offset must be between -12:00 and +14:00", ErrInvalidTimeZone)
	}

	return FixedOffset{name: name, hours: hours, minutes: minutes, offset: offset}, nil
}

// UTC returns the "UTC" offset of zero.
func UTC() FixedOffset {
	return FixedOffset{name: "UTC"}
}

func combine(hours, minutes int) time.Duration {
	m := time.Duration(minutes) * time.Minute
	switch {
	case hours < 0 && m > 0:
		m = -m
	case hours > 0 && m < 0:
		m = -m
	}
	return time.Duration(hours)*time.Hour + m
}

// Name returns the display name.
func (o FixedOffset) Name() string { return o.name }

// Hours returns the hour component as given to New.
func (o FixedOffset) Hours() int { return o.hours }

// Minutes returns the minute component as given to New.
func (o FixedOffset) Minutes() int { return o.minutes }

// Offset returns the signed distance from UTC.
func (o FixedOffset) Offset() time.Duration { return o.offset }

// IsZero reports whether o is the zero value rather than a constructed offset.
func (o FixedOffset) IsZero() bool { return o.name == "" }

// Equal reports structural equality: two offsets with the same duration but
// different names are not equal.
func (o FixedOffset) Equal(other FixedOffset) bool {
	return o.name == other.name && o.hours == other.hours && o.minutes == other.minutes
}

// Location returns a time.Location that renders times at this offset.
func (o FixedOffset) Location() *time.Location {
	return time.FixedZone(o.name, int(o.offset/time.Second))
}

// In shifts t into this offset.
func (o FixedOffset) In(t time.Time) time.Time {
	return t.In(o.Location())
}

func (o FixedOffset) String() string {
	sign := '+'
	d := o.offset
	if d < 0 {
		sign = '-'
		d = -d
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%s (UTC%c%02d:%02d)", o.name, sign, h, m)
}

package model

import (
	"errors"
	"fmt"
)

// Day indexes a fixed calendar day of the 7-day cycle. The index is always
// Monday-anchored at 0; the week-start preference only rotates display
// order and never changes stored indexes.
type Day int

// Fixed day indexes, Monday through Sunday.
const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekLength is the number of cells per chore row.
const WeekLength = 7

// ErrUnknownDay reports a day name outside the 7 known short names.
var ErrUnknownDay = errors.New("unknown day name")

var dayNames = [WeekLength]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// String returns the short display name, e.g. "Mon".
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Valid reports whether d is inside [Monday, Sunday].
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ParseDay maps a short day name back to its fixed index.
func ParseDay(name string) (Day, error) {
	for i, n := range dayNames {
		if n == name {
			return Day(i), nil
		}
	}
	return Monday, fmt.Errorf("%w: %q", ErrUnknownDay, name)
}

// Week returns the 7 days in stored order, Monday first.
func Week() []Day {
	days := make([]Day, WeekLength)
	for i := range days {
		days[i] = Day(i)
	}
	return days
}

// WeekFrom returns the 7 days rotated so start comes first. Invalid starts
// fall back to Monday. Display ordering only.
func WeekFrom(start Day) []Day {
	if !start.Valid() {
		start = Monday
	}
	days := make([]Day, WeekLength)
	for i := range days {
		days[i] = Day((int(start) + i) % WeekLength)
	}
	return days
}

// FILE: calendar.go
// Package main – Trading-session gate.
//
// The exchange trades in two daily sessions (morning and afternoon). Ticks
// whose wall-clock time falls outside every session are dropped before they
// reach any strategy state. Both session bounds are inclusive.

package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Clock is a time of day in whole seconds since midnight.
type Clock int

// ParseClock parses "HH:MM:SS" (or "HH:MM").
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
		}
	}
	return 0, errors.Errorf("bad clock %q (want HH:MM:SS)", s)
}

// ClockOf returns the wall-clock time of t in t's own location.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return Clock(h*3600 + m*60 + s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// Session is one continuous trading window [Start, End].
type Session struct {
	Start Clock
	End   Clock
}

func (s Session) contains(c Clock) bool { return c >= s.Start && c <= s.End }

// Calendar holds the daily sessions.
type Calendar struct {
	Sessions []Session
}

// DefaultCalendar is the 09:30–11:30 / 13:00–15:00 exchange day.
func DefaultCalendar() Calendar {
	return Calendar{Sessions: []Session{
		{Start: 9*3600 + 30*60, End: 11*3600 + 30*60},
		{Start: 13 * 3600, End: 15 * 3600},
	}}
}

// IsTradable reports whether ts lies inside one of the sessions.
func (c Calendar) IsTradable(ts time.Time) bool {
	clk := ClockOf(ts)
	for _, s := range c.Sessions {
		if s.contains(clk) {
			return true
		}
	}
	return false
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30:15")
	require.NoError(t, err)
	assert.Equal(t, Clock(9*3600+30*60+15), c)
	assert.Equal(t, "09:30:15", c.String())

	c, err = ParseClock("13:00")
	require.NoError(t, err)
	assert.Equal(t, Clock(13*3600), c)

	for _, bad := range []string{"", "25:00:00", "9h30", "09:61:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestCalendar_IsTradable(t *testing.T) {
	cal := DefaultCalendar()
	tests := []struct {
		clock string
		want  bool
	}{
		{"09:15:00", false},
		{"09:29:59", false},
		{"09:30:00", true},
		{"10:45:30", true},
		{"11:30:00", true},
		{"11:30:01", false},
		{"12:30:00", false},
		{"12:59:59", false},
		{"13:00:00", true},
		{"14:59:59", true},
		{"15:00:00", true},
		{"15:00:01", false},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsTradable(at(t, tt.clock)))
		})
	}
}

func TestCalendar_NoSessions(t *testing.T) {
	assert.False(t, Calendar{}.IsTradable(at(t, "10:00:00")))
}

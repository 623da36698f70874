package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTo24Hour(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2:30 PM", "14:30"},
		{"12:00 PM", "12:00"},
		{"12:00 AM", "00:00"},
		{"11:59 PM", "23:59"},
		{"9:05 AM", "09:05"},
		{"14:30", "14:30"},
		{"9:00", "09:00"},
		{"", "00:00"},
	}
	for _, tc := range cases {
		got, err := To24Hour(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestTo24HourMalformed(t *testing.T) {
	for _, input := range []string{"2:30 XX", "930", "25:00", "10:75", "abc", "7:15 pm extra"} {
		_, err := To24Hour(input)
		assert.Error(t, err, "input %q", input)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", input)
	}
}

func TestTo12Hour(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"14:30", "2:30 PM"},
		{"00:30", "12:30 AM"},
		{"12:30", "12:30 PM"},
		{"23:00", "11:00 PM"},
		{"09:05", "9:05 AM"},
		{"", "12:00 AM"},
		{"2:30 PM", "2:30 PM"},
	}
	for _, tc := range cases {
		got, err := To12Hour(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestRoundTrip(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 15, 59} {
			canonical, err := To24Hour(timeString(hour, minute))
			require.NoError(t, err)
			display, err := To12Hour(canonical)
			require.NoError(t, err)
			back, err := To24Hour(display)
			require.NoError(t, err)
			assert.Equal(t, canonical, back, "round trip for %02d:%02d", hour, minute)
		}
	}
}

func TestEnsure24HourIdempotent(t *testing.T) {
	for _, input := range []string{"14:30", "2:30 PM", "9:00", ""} {
		once, err := Ensure24Hour(input)
		require.NoError(t, err)
		twice, err := Ensure24Hour(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestCrossesMidnight(t *testing.T) {
	cases := []struct {
		start string
		end   string
		want  bool
	}{
		{"22:00", "02:00", true},
		{"09:00", "17:00", false},
		{"10:00", "10:00", false},
		{"23:00", "01:00", true},
		{"10:30", "10:15", true},
		{"11:00 PM", "1:00 AM", true},
		{"", "02:00", false},
		{"22:00", "", false},
	}
	for _, tc := range cases {
		got, err := CrossesMidnight(tc.start, tc.end)
		require.NoError(t, err, "%s -> %s", tc.start, tc.end)
		assert.Equal(t, tc.want, got, "%s -> %s", tc.start, tc.end)
	}
}

func TestResolveEndDate(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	rolled, err := ResolveEndDate(start, "23:00", "01:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), rolled)

	same, err := ResolveEndDate(start, "09:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, start, same)
}

func TestEndsAfterStart(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	ok, err := EndsAfterStart(day, day, "09:00", "17:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EndsAfterStart(day, next, "23:00", "01:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EndsAfterStart(day, day, "17:00", "17:00")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = EndsAfterStart(day, day, "17:00", "09:00")
	require.NoError(t, err)
	assert.False(t, ok)
}

func timeString(hour, minute int) string {
	return time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04")
}

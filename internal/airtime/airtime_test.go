package airtime

import (
	"testing"
	"time"

	"premiere/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestLoadLocationUnknown(t *testing.T) {
	_, err := LoadLocation("Mars/Olympus_Mons")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrTime)

	_, err = LoadLocation("  ")
	assert.ErrorIs(t, err, apperr.ErrTime)
}

func TestToLocal(t *testing.T) {
	ny := mustLocation(t, "America/New_York")

	cases := []struct {
		in   string
		want string
	}{
		{"2025-01-13T03:00:00.000Z", "2025-01-12 22:00"},
		{"2025-01-13T03:00:00Z", "2025-01-12 22:00"},
		{"2025-07-01T01:30:00Z", "2025-06-30 21:30"},
		{"2025-01-13T03:00:00", "2025-01-12 22:00"},
		{"2025-01-13 03:00:00", "2025-01-12 22:00"},
		{"2025-01-13T05:00:00+02:00", "2025-01-12 22:00"},
	}
	for _, tc := range cases {
		got, err := ToLocal(tc.in, ny)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.Format("2006-01-02 15:04"), tc.in)
		assert.Equal(t, ny, got.Location())
	}
}

func TestToLocalMalformed(t *testing.T) {
	ny := mustLocation(t, "America/New_York")
	for _, in := range []string{"", "yesterday", "2025-13-45T00:00:00Z"} {
		_, err := ToLocal(in, ny)
		assert.ErrorIs(t, err, apperr.ErrTime, in)
	}

	_, err := ToLocal("2025-01-13T03:00:00Z", nil)
	assert.ErrorIs(t, err, apperr.ErrTime)
}

func TestTodayUsesLocalDate(t *testing.T) {
	tokyo := mustLocation(t, "Asia/Tokyo")
	ny := mustLocation(t, "America/New_York")
	now := time.Date(2025, 1, 12, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-01-13", Today(now, tokyo))
	assert.Equal(t, "2025-01-12", Today(now, ny))
}

func TestSameDay(t *testing.T) {
	ny := mustLocation(t, "America/New_York")
	local, err := ToLocal("2025-01-13T03:00:00Z", ny)
	require.NoError(t, err)

	assert.True(t, SameDay(local, "2025-01-12"))
	assert.False(t, SameDay(local, "2025-01-13"))
}

func TestFormat(t *testing.T) {
	ny := mustLocation(t, "America/New_York")

	local, err := ToLocal("2025-01-13T03:00:00.000Z", ny)
	require.NoError(t, err)
	assert.Equal(t, "Sunday, January 12th, 2025 at 10:00 PM EST", Format(local))

	local, err = ToLocal("2025-07-01T13:05:00Z", ny)
	require.NoError(t, err)
	assert.Equal(t, "Tuesday, July 1st, 2025 at 9:05 AM EDT", Format(local))
}

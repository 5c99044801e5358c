// internal/clock/clock_test.go
package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_UnsyncedYearIsUnavailable(t *testing.T) {
	s, err := NewSystem("UTC", 2020)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Unix(0, 0) } // 1970
	_, ok := s.NowLocal()
	assert.False(t, ok)

	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	got, ok := s.NowLocal()
	assert.True(t, ok)
	assert.Equal(t, 2024, got.Year())
}

func TestSystem_ConvertsToLocation(t *testing.T) {
	s, err := NewSystem("Asia/Kolkata", 2020)
	require.NoError(t, err)

	// 18:45 UTC is 00:15 the next day in IST
	s.now = func() time.Time { return time.Date(2024, 5, 31, 18, 45, 0, 0, time.UTC) }
	got, ok := s.NowLocal()
	require.True(t, ok)

	assert.Equal(t, "2024-06-01 00:15", got.Format("2006-01-02 15:04"))
	assert.Equal(t, "Asia/Kolkata", s.Location().String())
}

func TestNewSystem_BadTimezone(t *testing.T) {
	_, err := NewSystem("Nowhere/Land", 2020)
	assert.Error(t, err)
}

func TestManual(t *testing.T) {
	var m Manual
	_, ok := m.NowLocal()
	assert.False(t, ok)

	start := time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)
	m.Set(start)
	m.Advance(2 * time.Minute)

	got, ok := m.NowLocal()
	assert.True(t, ok)
	assert.Equal(t, start.Add(2*time.Minute), got)
}

// internal/clock/clock.go
package clock

import (
	"fmt"
	"time"
	_ "time/tzdata" // boards often ship without zoneinfo
)

// Clock reports local calendar time, or false while it is not yet known.
type Clock interface {
	NowLocal() (time.Time, bool)
}

// System reads the host clock. A year below MinYear means the clock has
// not been synchronized since boot (RTC-less boards start at the epoch).
type System struct {
	loc     *time.Location
	minYear int
	now     func() time.Time
}

// NewSystem loads tz ("" = host local time).
func NewSystem(tz string, minYear int) (*System, error) {
	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("clock: load timezone %q: %w", tz, err)
		}
		loc = l
	}
	return &System{loc: loc, minYear: minYear, now: time.Now}, nil
}

func (s *System) NowLocal() (time.Time, bool) {
	t := s.now().In(s.loc)
	if t.Year() < s.minYear {
		return time.Time{}, false
	}
	return t, true
}

// Location returns the configured location.
func (s *System) Location() *time.Location {
	return s.loc
}

// Manual is a settable Clock for tests.
type Manual struct {
	T     time.Time
	Valid bool
}

func (m *Manual) NowLocal() (time.Time, bool) {
	if !m.Valid {
		return time.Time{}, false
	}
	return m.T, true
}

// Set makes the clock valid at t.
func (m *Manual) Set(t time.Time) {
	m.T = t
	m.Valid = true
}

func (m *Manual) Advance(d time.Duration) {
	m.T = m.T.Add(d)
}

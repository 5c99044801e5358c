// internal/status/tracker.go
package status

import (
	"sync"
	"time"

	"github.com/tamzrod/inverter-sync/internal/inverter"
	"github.com/tamzrod/inverter-sync/internal/poller"
)

// Baselines mirrors the energy accountant's period state for display.
type Baselines struct {
	Month       string
	MonthlyKWh  float64
	Year        string
	YearlyKWh   float64
	Established bool
}

// View is a point-in-time copy of daemon state.
// It is a value type: safe to use after the lock is released.
type View struct {
	Health    Snapshot
	Telemetry inverter.Snapshot
	Link      poller.LinkHealth
	Baselines Baselines
	LastEvent string
	StartTime time.Time
	Now       time.Time
}

// Tracker is the only state shared with other goroutines. The engine
// loop publishes into it after every tick; HTTP handlers read from it.
type Tracker struct {
	mu   sync.RWMutex
	view View
}

func NewTracker(start time.Time) *Tracker {
	return &Tracker{view: View{StartTime: start}}
}

// Update replaces the engine-owned part of the view.
func (t *Tracker) Update(h Snapshot, tel inverter.Snapshot, link poller.LinkHealth, b Baselines) {
	t.mu.Lock()
	t.view.Health = h
	t.view.Telemetry = tel
	t.view.Link = link
	t.view.Baselines = b
	t.mu.Unlock()
}

// SetLastEvent records the latest accepted diagnostic event.
func (t *Tracker) SetLastEvent(msg string) {
	t.mu.Lock()
	t.view.LastEvent = msg
	t.mu.Unlock()
}

// View returns a copy with Now set to the time of the call.
func (t *Tracker) View() View {
	t.mu.RLock()
	v := t.view
	t.mu.RUnlock()
	v.Now = time.Now()
	return v
}

// internal/engine/events.go
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/inverter-sync/internal/clock"
	"github.com/tamzrod/inverter-sync/internal/status"
	"github.com/tamzrod/inverter-sync/internal/store"
)

// Events is the diagnostic event sink. Accepted events are written to the
// store at most once per min gap.
type Events struct {
	mu sync.Mutex

	store   store.Store
	clock   clock.Clock
	tracker *status.Tracker
	minGap  time.Duration
	started time.Time
	now     func() time.Time
	log     zerolog.Logger

	last     time.Time
	accepted bool
}

// NewEvents returns a sink. tracker may be nil.
func NewEvents(st store.Store, clk clock.Clock, tracker *status.Tracker, minGap time.Duration, start time.Time, log zerolog.Logger) *Events {
	return &Events{
		store:   st,
		clock:   clk,
		tracker: tracker,
		minGap:  minGap,
		started: start,
		now:     time.Now,
		log:     log.With().Str("component", "events").Logger(),
	}
}

// Emit records msg. It never blocks on the store.
func (ev *Events) Emit(msg string) {
	ev.mu.Lock()
	defer ev.mu.Unlock()

	now := ev.now()
	if !ev.store.Ready() {
		ev.log.Debug().Str("event", msg).Msg("event not stored, store not ready")
		return
	}
	if ev.accepted && now.Sub(ev.last) < ev.minGap {
		ev.log.Debug().Str("event", msg).Msg("event rate limited")
		return
	}
	ev.last = now
	ev.accepted = true

	stamp := fmt.Sprintf("+%ds", int64(now.Sub(ev.started)/time.Second))
	if t, ok := ev.clock.NowLocal(); ok {
		stamp = t.Format(status.EventLayout)
	}

	ev.store.Write(status.PathLastEvent, msg)
	ev.store.Write(status.PathLastEventTime, stamp)
	if ev.tracker != nil {
		ev.tracker.SetLastEvent(msg)
	}
	ev.log.Info().Str("event", msg).Str("at", stamp).Msg("event")
}

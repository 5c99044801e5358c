// internal/engine/schedule.go
package engine

import "time"

type timer struct {
	name  string
	every time.Duration
	last  time.Time
	fire  func(now time.Time)
}

func (t *timer) due(now time.Time) bool {
	return now.Sub(t.last) >= t.every
}

// newTimers returns the timers in firing order.
func (e *Engine) newTimers(start time.Time) []*timer {
	return []*timer{
		{name: "poll", every: e.cfg.Poll, last: start, fire: e.poll},
		{name: "live", every: e.cfg.Live, last: start, fire: e.publishLive},
		{name: "energy", every: e.cfg.Energy, last: start, fire: e.publishEnergy},
		{name: "history", every: e.cfg.History, last: start, fire: e.publishHistory},
		{name: "health", every: e.cfg.Health, last: start, fire: e.publishHealth},
	}
}

// Tick refreshes the readiness flags and fires every due timer.
// Several timers may fire in the same tick.
func (e *Engine) Tick(now time.Time) {
	e.storeReady = e.store.Ready()
	e.netUp = e.net.Connected()

	for _, t := range e.timers {
		if !t.due(now) {
			continue
		}
		t.last = now
		t.fire(now)
	}
}

func (e *Engine) poll(now time.Time) {
	ok := e.poller.PollOnce(now, &e.snap, &e.health)
	e.link.Observe(&e.health)
	if !ok && e.health.ConsecutiveFailures == 1 {
		e.log.Warn().
			Uint16("code", e.health.LastErrorCode).
			Msg("inverter offline")
	}
}

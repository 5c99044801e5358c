// internal/engine/engine.go
//
// Package engine owns the telemetry snapshot, link health and publishing
// state, and drives every component from one scheduler tick.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/inverter-sync/internal/clock"
	"github.com/tamzrod/inverter-sync/internal/inverter"
	"github.com/tamzrod/inverter-sync/internal/netcheck"
	"github.com/tamzrod/inverter-sync/internal/poller"
	"github.com/tamzrod/inverter-sync/internal/status"
	"github.com/tamzrod/inverter-sync/internal/store"
)

// Poller performs one bus poll cycle into the engine-owned state.
type Poller interface {
	PollOnce(now time.Time, snap *inverter.Snapshot, link *poller.LinkHealth) bool
}

// Supervisor reacts to link transitions after each poll.
type Supervisor interface {
	Observe(h *poller.LinkHealth) bool
}

// Observer receives a copy of the engine state after every tick.
type Observer interface {
	Update(v status.View)
}

// Config holds the timer intervals.
type Config struct {
	Poll       time.Duration
	Live       time.Duration
	LiveMinGap time.Duration
	Energy     time.Duration
	History    time.Duration
	Health     time.Duration
}

// Deps are the collaborators the engine drives.
// Tracker and Metrics are optional.
type Deps struct {
	Store        store.Store
	Clock        clock.Clock
	Connectivity netcheck.Connectivity
	Poller       Poller
	Supervisor   Supervisor
	Events       *Events
	Tracker      *status.Tracker
	Metrics      Observer
	Log          zerolog.Logger
}

// Engine is the single owner of all mutable sync state.
// It is not safe for concurrent use; Run confines it to one goroutine.
type Engine struct {
	cfg Config

	store   store.Store
	clock   clock.Clock
	net     netcheck.Connectivity
	poller  Poller
	link    Supervisor
	events  *Events
	tracker *status.Tracker
	metrics Observer
	log     zerolog.Logger

	snap   inverter.Snapshot
	health poller.LinkHealth
	live   liveState
	month  period
	year   period

	storeReady bool
	netUp      bool

	started time.Time
	timers  []*timer
}

// New builds an engine whose timers are armed at start.
func New(cfg Config, d Deps, start time.Time) (*Engine, error) {
	if d.Store == nil {
		return nil, errors.New("engine: store required")
	}
	if d.Clock == nil {
		return nil, errors.New("engine: clock required")
	}
	if d.Connectivity == nil {
		return nil, errors.New("engine: connectivity required")
	}
	if d.Poller == nil {
		return nil, errors.New("engine: poller required")
	}
	if d.Supervisor == nil {
		return nil, errors.New("engine: supervisor required")
	}

	intervals := []time.Duration{cfg.Poll, cfg.Live, cfg.Energy, cfg.History, cfg.Health}
	for _, iv := range intervals {
		if iv <= 0 {
			return nil, errors.New("engine: timer intervals must be > 0")
		}
	}
	if cfg.LiveMinGap < 0 {
		return nil, errors.New("engine: live min gap must be >= 0")
	}

	e := &Engine{
		cfg:     cfg,
		store:   d.Store,
		clock:   d.Clock,
		net:     d.Connectivity,
		poller:  d.Poller,
		link:    d.Supervisor,
		events:  d.Events,
		tracker: d.Tracker,
		metrics: d.Metrics,
		log:     d.Log.With().Str("component", "engine").Logger(),
		live:    newLiveState(),
		month:   newPeriod("monthly", status.MonthLayout, status.MonthlyBaselinePath, status.MonthlyEnergyPath),
		year:    newPeriod("yearly", status.YearLayout, status.YearlyBaselinePath, status.YearlyEnergyPath),
		started: start,
	}
	e.timers = e.newTimers(start)
	return e, nil
}

// Run drives Tick from the tick channel until ctx is done.
// The tick value is used as the current time.
func (e *Engine) Run(ctx context.Context, tick <-chan time.Time) error {
	e.log.Info().
		Dur("poll", e.cfg.Poll).
		Dur("live", e.cfg.Live).
		Dur("energy", e.cfg.Energy).
		Dur("history", e.cfg.History).
		Dur("health", e.cfg.Health).
		Msg("engine started")

	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("engine stopped")
			return nil
		case now := <-tick:
			e.Tick(now)
			e.export(now)
		}
	}
}

// Snapshot returns a copy of the current telemetry.
func (e *Engine) Snapshot() inverter.Snapshot { return e.snap }

// Link returns a copy of the current link health.
func (e *Engine) Link() poller.LinkHealth { return e.health }

func (e *Engine) uptime(now time.Time) int64 {
	return int64(now.Sub(e.started) / time.Second)
}

func (e *Engine) baselines() status.Baselines {
	return status.Baselines{
		Month:       e.month.key,
		MonthlyKWh:  e.month.baseline,
		Year:        e.year.key,
		YearlyKWh:   e.year.baseline,
		Established: e.month.key != "" && e.year.key != "",
	}
}

func (e *Engine) view(now time.Time) status.View {
	return status.View{
		Health:    e.healthSnapshot(now),
		Telemetry: e.snap,
		Link:      e.health,
		Baselines: e.baselines(),
		StartTime: e.started,
		Now:       now,
	}
}

// export hands a copy of the state to the goroutines that serve it.
func (e *Engine) export(now time.Time) {
	v := e.view(now)
	if e.tracker != nil {
		e.tracker.Update(v.Health, v.Telemetry, v.Link, v.Baselines)
	}
	if e.metrics != nil {
		e.metrics.Update(v)
	}
}

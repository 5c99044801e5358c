// internal/engine/energy.go
package engine

import (
	"strings"
	"time"

	"github.com/tamzrod/inverter-sync/internal/status"
)

// period tracks the baseline of one calendar period kind.
type period struct {
	kind         string
	layout       string
	baselinePath func(key string) string
	energyPath   func(key string) string

	key      string
	baseline float64
}

func newPeriod(kind, layout string, baselinePath, energyPath func(string) string) period {
	return period{
		kind:         kind,
		layout:       layout,
		baselinePath: baselinePath,
		energyPath:   energyPath,
		baseline:     unpublished,
	}
}

// publishPeriod establishes the baseline on a key change, then publishes the
// period energy against it. It reports whether a baseline was set.
func (e *Engine) publishPeriod(p *period, t time.Time, total float64) bool {
	key := t.Format(p.layout)

	established := false
	if key != p.key {
		p.key = key
		p.baseline = total
		e.store.Write(p.baselinePath(key), total)
		e.log.Info().
			Str("period", p.kind).
			Str("key", key).
			Float64("baseline_kwh", total).
			Msg("energy baseline set")
		established = true
	}

	delta := total - p.baseline
	if delta < 0 {
		e.log.Warn().
			Str("period", p.kind).
			Str("key", key).
			Float64("total_kwh", total).
			Float64("baseline_kwh", p.baseline).
			Msg("energy total below period baseline")
	}
	e.store.Write(p.energyPath(key), delta)
	return established
}

func (e *Engine) publishEnergy(time.Time) {
	if !e.storeReady || !e.snap.Valid {
		return
	}
	t, ok := e.clock.NowLocal()
	if !ok {
		e.log.Debug().Msg("energy skipped, clock not set")
		return
	}

	e.store.Write(status.DailyEnergyPath(t.Format(status.DateLayout)), e.snap.EnergyToday)

	var set []string
	if e.publishPeriod(&e.month, t, e.snap.EnergyTotal) {
		set = append(set, e.month.key)
	}
	if e.publishPeriod(&e.year, t, e.snap.EnergyTotal) {
		set = append(set, e.year.key)
	}
	if len(set) > 0 && e.events != nil {
		e.events.Emit("energy baseline set " + strings.Join(set, ", "))
	}
}

// internal/engine/live.go
package engine

import (
	"math"
	"time"

	"github.com/tamzrod/inverter-sync/internal/inverter"
	"github.com/tamzrod/inverter-sync/internal/status"
)

const statusTextMetric = "status_text"

// unpublished marks a metric never pushed.
const unpublished = -1

type liveMetric struct {
	name      string
	threshold float64
	value     func(s *inverter.Snapshot) float64
}

var liveMetrics = []liveMetric{
	{"pv_voltage", 0.2, func(s *inverter.Snapshot) float64 { return s.PVVoltage }},
	{"pv_current", 0.2, func(s *inverter.Snapshot) float64 { return s.PVCurrent }},
	{"ac_power", 10, func(s *inverter.Snapshot) float64 { return s.ACPower }},
	{"grid_voltage", 1.0, func(s *inverter.Snapshot) float64 { return s.GridVoltage }},
	{"grid_current", 0.2, func(s *inverter.Snapshot) float64 { return s.GridCurrent }},
	{"grid_frequency", 0.02, func(s *inverter.Snapshot) float64 { return s.GridFrequency }},
	{"work_hours", 0.02, func(s *inverter.Snapshot) float64 { return s.WorkHours }},
}

// liveState is the last value pushed per live metric.
type liveState struct {
	last       []float64
	lastStatus string
	lastPush   time.Time
}

func newLiveState() liveState {
	last := make([]float64, len(liveMetrics))
	for i := range last {
		last[i] = unpublished
	}
	return liveState{last: last}
}

// publishLive pushes every metric whose change since its last push exceeds
// its threshold. The min gap is shared by all metrics.
func (e *Engine) publishLive(now time.Time) {
	if !e.storeReady || !e.snap.Valid {
		return
	}
	if !e.live.lastPush.IsZero() && now.Sub(e.live.lastPush) < e.cfg.LiveMinGap {
		return
	}

	wrote := 0
	for i, m := range liveMetrics {
		v := m.value(&e.snap)
		if math.Abs(v-e.live.last[i]) <= m.threshold {
			continue
		}
		e.store.Write(status.LivePath(m.name), v)
		e.live.last[i] = v
		wrote++
	}

	if text := e.snap.Status.String(); text != e.live.lastStatus {
		e.store.Write(status.LivePath(statusTextMetric), text)
		e.live.lastStatus = text
		wrote++
	}

	if wrote > 0 {
		e.live.lastPush = now
		e.log.Debug().Int("metrics", wrote).Msg("live pushed")
	}
}

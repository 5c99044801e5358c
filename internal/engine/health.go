// internal/engine/health.go
package engine

import (
	"time"

	"github.com/tamzrod/inverter-sync/internal/status"
)

func (e *Engine) healthSnapshot(now time.Time) status.Snapshot {
	return status.Snapshot{
		NetworkConnected: e.netUp,
		StoreReady:       e.storeReady,
		InverterOnline:   e.health.Online,
		LastErrorCode:    e.health.LastErrorCode,
		UptimeSeconds:    e.uptime(now),
	}
}

// publishHealth writes the health report unconditionally once the store is ready.
func (e *Engine) publishHealth(now time.Time) {
	if !e.storeReady {
		return
	}
	for _, f := range status.Encode(e.healthSnapshot(now)) {
		e.store.Write(f.Path, f.Value)
	}
}

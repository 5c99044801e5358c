// internal/engine/history.go
package engine

import (
	"time"

	"github.com/tamzrod/inverter-sync/internal/status"
)

// publishHistory writes one ac_power bucket per minute; a second write in
// the same minute overwrites the bucket.
func (e *Engine) publishHistory(time.Time) {
	if !e.storeReady || !e.snap.Valid {
		return
	}
	t, ok := e.clock.NowLocal()
	if !ok {
		e.log.Debug().Msg("history skipped, clock not set")
		return
	}

	path := status.HistoryPath(t.Format(status.DateLayout), t.Format(status.MinuteLayout))
	e.store.Write(path, e.snap.ACPower)
}

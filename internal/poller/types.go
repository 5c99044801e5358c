// internal/poller/types.go
package poller

import "time"

// LinkHealth is the bus link state carried across poll cycles.
type LinkHealth struct {
	// ConsecutiveFailures counts failed cycles since the last full success.
	ConsecutiveFailures uint32

	// LastErrorCode is the transport code of the most recent failure.
	// It is not cleared on success.
	LastErrorCode uint16

	Online     bool
	LastOnline bool // Online as it was before the current cycle

	LastSuccess time.Time
}

// Recovered reports the offline->online edge of the last cycle.
func (h *LinkHealth) Recovered() bool {
	return !h.LastOnline && h.Online
}

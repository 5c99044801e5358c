// internal/link/supervisor.go
package link

import (
	"github.com/rs/zerolog"

	"github.com/tamzrod/inverter-sync/internal/poller"
)

// Resetter closes and reopens the bus transport.
type Resetter interface {
	Reset() error
}

// Events receives diagnostic messages.
type Events interface {
	Emit(msg string)
}

const (
	EventRecovered   = "modbus link recovered, transport reset"
	EventResetFailed = "modbus transport reset failed"
)

// Supervisor forces a transport reset on every offline->online edge.
// Transports can resume in a corrupted framing state after an outage.
type Supervisor struct {
	bus    Resetter
	events Events
	log    zerolog.Logger
}

func New(bus Resetter, events Events, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		bus:    bus,
		events: events,
		log:    log.With().Str("component", "link").Logger(),
	}
}

// Observe is called once per poll cycle, after the poll result is known.
// It reports whether a reset was issued.
func (s *Supervisor) Observe(h *poller.LinkHealth) bool {
	if !h.Recovered() {
		return false
	}

	h.ConsecutiveFailures = 0

	if err := s.bus.Reset(); err != nil {
		s.log.Error().Err(err).Msg("transport reset failed")
		s.emit(EventResetFailed)
		return true
	}

	s.log.Info().Msg("bus online, transport reset")
	s.emit(EventRecovered)
	return true
}

func (s *Supervisor) emit(msg string) {
	if s.events != nil {
		s.events.Emit(msg)
	}
}

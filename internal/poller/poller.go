// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/inverter-sync/internal/inverter"
)

// Bus abstracts the read transaction the poller needs.
// Direction control and framing belong to the implementation.
type Bus interface {
	ReadInputRegisters(start, count uint16) ([]uint16, error) // FC 4
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Groups []inverter.Group
}

// Poller reads register groups in order and decodes them into a snapshot.
// It holds no state of its own: snapshot and link health are owned by the caller.
type Poller struct {
	cfg Config
	bus Bus
	log zerolog.Logger
}

// New creates a poller with immutable config.
func New(cfg Config, bus Bus, log zerolog.Logger) (*Poller, error) {
	if bus == nil {
		return nil, errors.New("poller: bus required")
	}
	if len(cfg.Groups) == 0 {
		return nil, errors.New("poller: at least one register group required")
	}
	return &Poller{cfg: cfg, bus: bus, log: log.With().Str("component", "poller").Logger()}, nil
}

// PollOnce performs exactly one poll cycle.
//
// Each group is decoded as soon as it is read. The cycle stops at the first
// failed group, so later groups keep their previous values. Only a cycle in
// which every group succeeded marks the link online and the snapshot valid.
func (p *Poller) PollOnce(now time.Time, snap *inverter.Snapshot, link *LinkHealth) bool {
	link.LastOnline = link.Online

	for _, g := range p.cfg.Groups {
		regs, err := p.bus.ReadInputRegisters(g.Start, g.Count)
		if err == nil {
			err = g.Decode(regs, snap)
		}
		if err != nil {
			link.ConsecutiveFailures++
			link.LastErrorCode = ErrorCode(err)
			link.Online = false

			p.log.Debug().
				Str("group", g.Name).
				Uint32("consecutive", link.ConsecutiveFailures).
				Uint16("code", link.LastErrorCode).
				Err(err).
				Msg("poll failed")
			return false
		}
	}

	// Commit link state only if all groups succeeded
	link.Online = true
	link.LastSuccess = now
	link.ConsecutiveFailures = 0

	snap.Valid = true
	snap.UpdatedAt = now

	return true
}

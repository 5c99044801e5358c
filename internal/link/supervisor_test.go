// internal/link/supervisor_test.go
package link_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/inverter-sync/internal/link"
	"github.com/tamzrod/inverter-sync/internal/poller"
)

type fakeBus struct {
	resets int
	err    error
}

func (f *fakeBus) Reset() error {
	f.resets++
	return f.err
}

type fakeEvents struct{ msgs []string }

func (f *fakeEvents) Emit(msg string) { f.msgs = append(f.msgs, msg) }

func TestObserve_ResetOncePerRecoveryEdge(t *testing.T) {
	bus := &fakeBus{}
	ev := &fakeEvents{}
	s := link.New(bus, ev, zerolog.Nop())

	// previous online -> current online, per cycle
	cycles := []struct {
		last, now bool
		reset     bool
	}{
		{false, false, false}, // sustained offline
		{false, false, false},
		{false, true, true}, // recovery edge
		{true, true, false}, // sustained online
		{true, true, false},
		{true, false, false}, // outage
		{false, false, false},
		{false, true, true}, // second recovery
	}

	for i, c := range cycles {
		h := &poller.LinkHealth{LastOnline: c.last, Online: c.now, ConsecutiveFailures: 3}
		got := s.Observe(h)
		assert.Equal(t, c.reset, got, "cycle %d", i)
		if c.reset {
			assert.Zero(t, h.ConsecutiveFailures, "cycle %d", i)
		} else {
			assert.Equal(t, uint32(3), h.ConsecutiveFailures, "cycle %d", i)
		}
	}

	assert.Equal(t, 2, bus.resets)
	assert.Equal(t, []string{link.EventRecovered, link.EventRecovered}, ev.msgs)
}

func TestObserve_ResetErrorIsNotFatal(t *testing.T) {
	bus := &fakeBus{err: errors.New("device busy")}
	ev := &fakeEvents{}
	s := link.New(bus, ev, zerolog.Nop())

	h := &poller.LinkHealth{LastOnline: false, Online: true}
	assert.True(t, s.Observe(h))
	assert.Equal(t, 1, bus.resets)
	assert.Equal(t, []string{link.EventResetFailed}, ev.msgs)
}

func TestObserve_NilEvents(t *testing.T) {
	bus := &fakeBus{}
	s := link.New(bus, nil, zerolog.Nop())

	assert.True(t, s.Observe(&poller.LinkHealth{Online: true}))
	assert.Equal(t, 1, bus.resets)
}

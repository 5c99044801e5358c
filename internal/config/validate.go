// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/tamzrod/inverter-sync/internal/inverter"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}

	if err := validateBus(&cfg.Bus); err != nil {
		return err
	}
	if err := validateStore(&cfg.Store); err != nil {
		return err
	}
	if err := validateSchedule(&cfg.Schedule, cfg.Bus.TimeoutMs); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// CLOCK
	// ------------------------------------------------------------

	if cfg.Clock.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Clock.Timezone); err != nil {
			return fmt.Errorf("clock.timezone %q: %v", cfg.Clock.Timezone, err)
		}
	}
	if cfg.Clock.MinValidYear < 1970 {
		return fmt.Errorf("clock.min_valid_year must be >= 1970, got %d", cfg.Clock.MinValidYear)
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be one of debug|info|warn|error", cfg.Log.Level)
	}

	return nil
}

func validateBus(b *BusConfig) error {
	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	transport := strings.ToLower(b.Transport)
	switch transport {
	case "rtu":
		if b.Device == "" {
			return fmt.Errorf("bus.device is required for rtu transport")
		}
		if b.BaudRate <= 0 {
			return fmt.Errorf("bus.baud_rate must be > 0, got %d", b.BaudRate)
		}
		if b.DataBits != 7 && b.DataBits != 8 {
			return fmt.Errorf("bus.data_bits must be 7 or 8, got %d", b.DataBits)
		}
		if b.StopBits != 1 && b.StopBits != 2 {
			return fmt.Errorf("bus.stop_bits must be 1 or 2, got %d", b.StopBits)
		}
		switch strings.ToUpper(b.Parity) {
		case "N", "E", "O":
		default:
			return fmt.Errorf("bus.parity %q: must be N, E or O", b.Parity)
		}
	case "tcp":
		if b.Endpoint == "" {
			return fmt.Errorf("bus.endpoint is required for tcp transport")
		}
	default:
		return fmt.Errorf("bus.transport %q: must be rtu or tcp", b.Transport)
	}

	if b.SlaveID < 1 || b.SlaveID > 247 {
		return fmt.Errorf("bus.slave_id must be 1..247, got %d", b.SlaveID)
	}
	if b.TimeoutMs <= 0 {
		return fmt.Errorf("bus.timeout_ms must be > 0, got %d", b.TimeoutMs)
	}

	// ------------------------------------------------------------
	// DIRECTION CONTROL
	// ------------------------------------------------------------

	switch strings.ToLower(b.Direction.Mode) {
	case "", "none":
	case "gpio":
		if transport != "rtu" {
			return fmt.Errorf("bus.direction.mode gpio requires rtu transport")
		}
		if b.RS485 {
			return fmt.Errorf("bus.direction.mode gpio conflicts with bus.rs485 kernel mode")
		}
		if b.Direction.Chip == "" {
			return fmt.Errorf("bus.direction.chip is required for gpio direction control")
		}
		if b.Direction.DEPin < 0 && b.Direction.REPin < 0 {
			return fmt.Errorf("bus.direction: at least one of de_pin/re_pin must be set")
		}
		if b.Direction.DEPin >= 0 && b.Direction.DEPin == b.Direction.REPin {
			return fmt.Errorf("bus.direction: de_pin and re_pin must differ, both %d", b.Direction.DEPin)
		}
	default:
		return fmt.Errorf("bus.direction.mode %q: must be none or gpio", b.Direction.Mode)
	}

	// ------------------------------------------------------------
	// REGISTER GROUP GEOMETRY
	// ------------------------------------------------------------

	type span struct {
		name  string
		start uint32
		end   uint32
	}

	groups := inverter.Groups(inverter.Layout{
		StatusPV:  b.Registers.StatusPV,
		PowerGrid: b.Registers.PowerGrid,
		Energy:    b.Registers.Energy,
	})

	var spans []span
	for _, g := range groups {
		start := uint32(g.Start)
		end := start + uint32(g.Count) - 1
		if end > 0xFFFF {
			return fmt.Errorf("bus.registers.%s: range %d-%d exceeds register space", g.Name, start, end)
		}

		for _, s := range spans {
			// overlap check (inclusive)
			if !(end < s.start || start > s.end) {
				return fmt.Errorf(
					"bus.registers: %s range=%d-%d overlaps with %s range=%d-%d",
					g.Name, start, end, s.name, s.start, s.end,
				)
			}
		}
		spans = append(spans, span{name: g.Name, start: start, end: end})
	}

	return nil
}

func validateStore(s *StoreConfig) error {
	switch strings.ToLower(s.Backend) {
	case "mqtt":
		if s.MQTT.Broker == "" {
			return fmt.Errorf("store.mqtt.broker is required")
		}
		if s.MQTT.QoS > 2 {
			return fmt.Errorf("store.mqtt.qos must be 0, 1 or 2, got %d", s.MQTT.QoS)
		}
		if s.MQTT.TimeoutMs <= 0 {
			return fmt.Errorf("store.mqtt.timeout_ms must be > 0, got %d", s.MQTT.TimeoutMs)
		}
		if strings.ContainsAny(s.MQTT.TopicPrefix, "+#") {
			return fmt.Errorf("store.mqtt.topic_prefix %q: wildcards are not allowed", s.MQTT.TopicPrefix)
		}
	case "sqlite":
		if s.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path is required")
		}
		if s.SQLite.QueueSize <= 0 {
			return fmt.Errorf("store.sqlite.queue_size must be > 0, got %d", s.SQLite.QueueSize)
		}
	default:
		return fmt.Errorf("store.backend %q: must be mqtt or sqlite", s.Backend)
	}
	return nil
}

func validateSchedule(s *ScheduleConfig, busTimeoutMs int) error {
	intervals := []struct {
		name string
		ms   int
	}{
		{"tick_ms", s.TickMs},
		{"poll_ms", s.PollMs},
		{"live_ms", s.LiveMs},
		{"energy_ms", s.EnergyMs},
		{"history_ms", s.HistoryMs},
		{"health_ms", s.HealthMs},
	}
	for _, iv := range intervals {
		if iv.ms <= 0 {
			return fmt.Errorf("schedule.%s must be > 0, got %d", iv.name, iv.ms)
		}
	}

	if s.LiveMinGapMs < 0 {
		return fmt.Errorf("schedule.live_min_gap_ms must be >= 0, got %d", s.LiveMinGapMs)
	}
	if s.EventMinGapMs < 0 {
		return fmt.Errorf("schedule.event_min_gap_ms must be >= 0, got %d", s.EventMinGapMs)
	}
	if s.TickMs > s.PollMs {
		return fmt.Errorf("schedule.tick_ms (%d) must not exceed schedule.poll_ms (%d)", s.TickMs, s.PollMs)
	}

	// A failing cycle stops at its first timed-out group, so one bus
	// timeout must fit inside one poll interval.
	if busTimeoutMs >= s.PollMs {
		return fmt.Errorf(
			"bus.timeout_ms (%d) must be less than schedule.poll_ms (%d)",
			busTimeoutMs, s.PollMs,
		)
	}

	return nil
}

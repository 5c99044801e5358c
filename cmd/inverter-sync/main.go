// cmd/inverter-sync/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/tamzrod/inverter-sync/internal/clock"
	"github.com/tamzrod/inverter-sync/internal/config"
	"github.com/tamzrod/inverter-sync/internal/engine"
	"github.com/tamzrod/inverter-sync/internal/link"
	"github.com/tamzrod/inverter-sync/internal/logger"
	"github.com/tamzrod/inverter-sync/internal/metrics"
	"github.com/tamzrod/inverter-sync/internal/netcheck"
	"github.com/tamzrod/inverter-sync/internal/poller"
	pmodbus "github.com/tamzrod/inverter-sync/internal/poller/modbus"
	"github.com/tamzrod/inverter-sync/internal/status"
	"github.com/tamzrod/inverter-sync/internal/store"
	"github.com/tamzrod/inverter-sync/internal/store/mqtt"
	"github.com/tamzrod/inverter-sync/internal/store/sqlite"
	"github.com/tamzrod/inverter-sync/internal/web"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "inverter-sync:", err)
		os.Exit(1)
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func run(args []string, stdout io.Writer) error {
	fs, flags := config.NewFlagSet("inverter-sync")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(flags.Path, fs)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	if flags.PrintConfig {
		out, err := config.Dump(cfg)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Service: logger.IsService()})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	clk, err := clock.NewSystem(cfg.Clock.Timezone, cfg.Clock.MinValidYear)
	if err != nil {
		return err
	}

	// --------------------
	// Store
	// --------------------

	st, closeStore, err := openStore(cfg.Store, flags.DryRun, log)
	if err != nil {
		return err
	}
	defer closeStore()

	tracker := status.NewTracker(start)
	events := engine.NewEvents(st, clk, tracker, ms(cfg.Schedule.EventMinGapMs), start, log)

	// --------------------
	// Bus
	// --------------------

	p, bus, closeBus, err := openBus(ctx, cfg.Bus, log)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer func() {
		if err := closeBus(); err != nil {
			log.Error().Err(err).Msg("bus close failed")
		}
	}()

	// --------------------
	// Engine
	// --------------------

	m := metrics.New()

	eng, err := engine.New(engine.Config{
		Poll:       ms(cfg.Schedule.PollMs),
		Live:       ms(cfg.Schedule.LiveMs),
		LiveMinGap: ms(cfg.Schedule.LiveMinGapMs),
		Energy:     ms(cfg.Schedule.EnergyMs),
		History:    ms(cfg.Schedule.HistoryMs),
		Health:     ms(cfg.Schedule.HealthMs),
	}, engine.Deps{
		Store:        st,
		Clock:        clk,
		Connectivity: netcheck.NewCached(netcheck.Interfaces{Name: cfg.Network.Interface}, time.Second),
		Poller:       p,
		Supervisor:   link.New(bus, events, log),
		Events:       events,
		Tracker:      tracker,
		Metrics:      m,
		Log:          log,
	}, start)
	if err != nil {
		return err
	}

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, m.Registry())
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", cfg.HTTP.Addr).Msg("status server failed")
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(sctx)
		}()
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("status server listening")
	}

	ticker := time.NewTicker(ms(cfg.Schedule.TickMs))
	defer ticker.Stop()

	return eng.Run(ctx, ticker.C)
}

// openStore selects the remote store backend.
func openStore(c config.StoreConfig, dryRun bool, log zerolog.Logger) (store.Store, func(), error) {
	if dryRun {
		log.Warn().Msg("dry run: store writes are logged only")
		return store.NewDryRun(log), func() {}, nil
	}

	switch c.Backend {
	case "mqtt":
		s, err := mqtt.New(mqtt.Config{
			Broker:      c.MQTT.Broker,
			ClientID:    c.MQTT.ClientID,
			Username:    c.MQTT.Username,
			Password:    c.MQTT.Password,
			TopicPrefix: c.MQTT.TopicPrefix,
			QoS:         c.MQTT.QoS,
			Timeout:     ms(c.MQTT.TimeoutMs),
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Error().Err(err).Msg("store close failed")
			}
			if n := s.Failed(); n > 0 {
				log.Warn().Uint64("failed", n).Msg("store publishes failed during run")
			}
		}, nil

	case "sqlite":
		s, err := sqlite.New(sqlite.Config{
			Path:      c.SQLite.Path,
			QueueSize: c.SQLite.QueueSize,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Error().Err(err).Msg("store close failed")
			}
			if n := s.Dropped(); n > 0 {
				log.Warn().Uint64("dropped", n).Msg("store writes dropped during run")
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", c.Backend)
	}
}

// openBus opens the bus line, retrying with backoff until it succeeds
// or ctx ends. Adapters plugged in after boot are picked up this way.
func openBus(ctx context.Context, b config.BusConfig, log zerolog.Logger) (*poller.Poller, *pmodbus.Client, func() error, error) {
	var (
		p      *poller.Poller
		client *pmodbus.Client
		closer func() error
	)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	op := func() error {
		var err error
		p, client, closer, err = poller.Build(b, log)
		return err
	}
	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("bus open failed")
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify); err != nil {
		return nil, nil, nil, err
	}

	log.Info().
		Str("transport", b.Transport).
		Str("device", b.Device).
		Str("endpoint", b.Endpoint).
		Uint8("slave_id", b.SlaveID).
		Msg("bus open")
	return p, client, closer, nil
}

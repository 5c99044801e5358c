// internal/config/load.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. INVSYNC_STORE_MQTT_PASSWORD.
const EnvPrefix = "INVSYNC"

// DefaultPath is used when --config is not given.
const DefaultPath = "/etc/inverter-sync.yaml"

var defaults = map[string]any{
	"bus.transport":            "rtu",
	"bus.device":               "/dev/ttyUSB0",
	"bus.endpoint":             "",
	"bus.baud_rate":            9600,
	"bus.data_bits":            8,
	"bus.parity":               "N",
	"bus.stop_bits":            1,
	"bus.slave_id":             1,
	"bus.timeout_ms":           1000,
	"bus.rs485":                false,
	"bus.direction.mode":       "none",
	"bus.direction.chip":       "gpiochip0",
	"bus.direction.de_pin":     -1,
	"bus.direction.re_pin":     -1,
	"bus.registers.status_pv":  0,
	"bus.registers.power_grid": 35,
	"bus.registers.energy":     53,

	"store.backend":           "mqtt",
	"store.mqtt.broker":       "tcp://127.0.0.1:1883",
	"store.mqtt.client_id":    "",
	"store.mqtt.username":     "",
	"store.mqtt.password":     "",
	"store.mqtt.topic_prefix": "solar",
	"store.mqtt.qos":          1,
	"store.mqtt.timeout_ms":   5000,
	"store.sqlite.path":       "/var/lib/inverter-sync/store.db",
	"store.sqlite.queue_size": 256,

	"clock.timezone":       "Asia/Kolkata",
	"clock.min_valid_year": 2020,

	"schedule.tick_ms":          50,
	"schedule.poll_ms":          2000,
	"schedule.live_ms":          2000,
	"schedule.live_min_gap_ms":  2000,
	"schedule.energy_ms":        300000,
	"schedule.history_ms":       300000,
	"schedule.health_ms":        30000,
	"schedule.event_min_gap_ms": 3000,

	"network.interface": "",
	"http.addr":         "",
	"log.level":         "info",
}

// Flags are the command line switches understood by Load.
type Flags struct {
	Path        string
	PrintConfig bool
	DryRun      bool
}

// NewFlagSet declares the daemon flags. --log-level and --http are bound
// onto the matching configuration keys by Load.
func NewFlagSet(name string) (*pflag.FlagSet, *Flags) {
	f := &Flags{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVarP(&f.Path, "config", "c", DefaultPath, "configuration file (yaml)")
	fs.BoolVar(&f.PrintConfig, "print-config", false, "print the effective configuration and exit")
	fs.BoolVar(&f.DryRun, "dry-run", false, "log store writes instead of sending them")
	fs.String("log-level", "", "log level override (debug|info|warn|error)")
	fs.String("http", "", "status server address override, e.g. :8080")
	return fs, f
}

// Load reads the configuration file at path, applies environment and
// flag overrides, and returns the decoded configuration.
// A missing file at the default path is not an error: defaults apply.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlag(v, fs, "log.level", "log-level"); err != nil {
			return nil, err
		}
		if err := bindFlag(v, fs, "http.addr", "http"); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !(path == DefaultPath && errors.Is(err, os.ErrNotExist)) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	return &cfg, nil
}

// bindFlag binds only flags that were actually set, so an empty default
// never shadows the file value.
func bindFlag(v *viper.Viper, fs *pflag.FlagSet, key, name string) error {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	if err := v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("config: bind flag %s: %w", name, err)
	}
	return nil
}

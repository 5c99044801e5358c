// internal/config/dump.go
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const masked = "********"

// Dump renders the effective configuration as yaml with secrets masked.
func Dump(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config: nil configuration")
	}

	c := *cfg
	if c.Store.MQTT.Password != "" {
		c.Store.MQTT.Password = masked
	}

	out, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("config: dump: %w", err)
	}
	return out, nil
}

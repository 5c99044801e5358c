// internal/config/normalize.go
package config

import "strings"

// mqttClientIDMax is the MQTT 3.1 client identifier limit.
const mqttClientIDMax = 23

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Bus.Transport = strings.ToLower(cfg.Bus.Transport)
	cfg.Bus.Parity = strings.ToUpper(cfg.Bus.Parity)
	cfg.Bus.Direction.Mode = strings.ToLower(cfg.Bus.Direction.Mode)
	if cfg.Bus.Direction.Mode == "" {
		cfg.Bus.Direction.Mode = "none"
	}

	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)

	// Topic prefix is joined with store paths that already start with "/".
	cfg.Store.MQTT.TopicPrefix = strings.TrimRight(cfg.Store.MQTT.TopicPrefix, "/")

	if len(cfg.Store.MQTT.ClientID) > mqttClientIDMax {
		cfg.Store.MQTT.ClientID = cfg.Store.MQTT.ClientID[:mqttClientIDMax]
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
}

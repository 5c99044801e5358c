// internal/config/validate_test.go
package config

import "testing"

// helper to build a configuration that passes validation
func valid() *Config {
	return &Config{
		Bus: BusConfig{
			Transport: "rtu",
			Device:    "/dev/ttyUSB0",
			BaudRate:  9600,
			DataBits:  8,
			Parity:    "N",
			StopBits:  1,
			SlaveID:   1,
			TimeoutMs: 500,
			Direction: DirectionConfig{Mode: "none", Chip: "gpiochip0", DEPin: -1, REPin: -1},
			Registers: RegisterConfig{StatusPV: 0, PowerGrid: 35, Energy: 53},
		},
		Store: StoreConfig{
			Backend: "mqtt",
			MQTT: MQTTConfig{
				Broker:      "tcp://127.0.0.1:1883",
				TopicPrefix: "solar",
				QoS:         1,
				TimeoutMs:   5000,
			},
		},
		Clock: ClockConfig{Timezone: "Asia/Kolkata", MinValidYear: 2020},
		Schedule: ScheduleConfig{
			TickMs:        50,
			PollMs:        2000,
			LiveMs:        2000,
			LiveMinGapMs:  2000,
			EnergyMs:      300000,
			HistoryMs:     300000,
			HealthMs:      30000,
			EventMinGapMs: 3000,
		},
		Log: LogConfig{Level: "info"},
	}
}

// ---- tests ----

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestValidate_TCPRequiresEndpoint(t *testing.T) {
	cfg := valid()
	cfg.Bus.Transport = "tcp"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected endpoint error, got nil")
	}

	cfg.Bus.Endpoint = "10.0.0.5:502"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TransportCaseInsensitive(t *testing.T) {
	cfg := valid()
	cfg.Bus.Transport = "RTU"
	cfg.Bus.Parity = "e"

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BadParity(t *testing.T) {
	cfg := valid()
	cfg.Bus.Parity = "X"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected parity error, got nil")
	}
}

func TestValidate_SlaveIDRange(t *testing.T) {
	for _, id := range []uint8{0, 248} {
		cfg := valid()
		cfg.Bus.SlaveID = id
		if err := Validate(cfg); err == nil {
			t.Fatalf("slave id %d: expected error, got nil", id)
		}
	}
}

func TestValidate_GPIODirection(t *testing.T) {
	cfg := valid()
	cfg.Bus.Direction.Mode = "gpio"

	// no pins
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected pin error, got nil")
	}

	cfg.Bus.Direction.DEPin = 17
	cfg.Bus.Direction.REPin = 17
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected distinct pin error, got nil")
	}

	cfg.Bus.Direction.REPin = 27
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Bus.RS485 = true
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected rs485 conflict error, got nil")
	}
}

func TestValidate_TouchingGroupsAllowed(t *testing.T) {
	cfg := valid()
	cfg.Bus.Registers = RegisterConfig{StatusPV: 0, PowerGrid: 5, Energy: 10} // 0-4, 5-9, 10-15

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_GroupOverlapDetected(t *testing.T) {
	cfg := valid()
	cfg.Bus.Registers = RegisterConfig{StatusPV: 0, PowerGrid: 4, Energy: 53} // 0-4 vs 4-8

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_GroupPastRegisterSpace(t *testing.T) {
	cfg := valid()
	cfg.Bus.Registers.Energy = 0xFFFE

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected range error, got nil")
	}
}

func TestValidate_StoreBackends(t *testing.T) {
	cfg := valid()
	cfg.Store.Backend = "sqlite"

	// path and queue are empty
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected sqlite error, got nil")
	}

	cfg.Store.SQLite = SQLiteConfig{Path: "/tmp/x.db", QueueSize: 8}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Store.Backend = "firebase"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected backend error, got nil")
	}
}

func TestValidate_MQTTWildcardPrefix(t *testing.T) {
	cfg := valid()
	cfg.Store.MQTT.TopicPrefix = "solar/#"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected wildcard error, got nil")
	}
}

func TestValidate_ScheduleIntervals(t *testing.T) {
	cfg := valid()
	cfg.Schedule.HistoryMs = 0

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected interval error, got nil")
	}
}

func TestValidate_BusTimeoutMustFitPoll(t *testing.T) {
	cfg := valid()
	cfg.Bus.TimeoutMs = cfg.Schedule.PollMs

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected timeout error, got nil")
	}
}

func TestValidate_UnknownTimezone(t *testing.T) {
	cfg := valid()
	cfg.Clock.Timezone = "Mars/Olympus"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected timezone error, got nil")
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := valid()
	cfg.Bus.Transport = "TCP"
	cfg.Bus.Endpoint = "h:502"
	cfg.Store.MQTT.TopicPrefix = "solar/"

	_ = Validate(cfg)

	if cfg.Bus.Transport != "TCP" || cfg.Store.MQTT.TopicPrefix != "solar/" {
		t.Fatalf("Validate mutated configuration: %+v", cfg)
	}
}

func TestNormalize(t *testing.T) {
	cfg := valid()
	cfg.Bus.Transport = "TCP"
	cfg.Bus.Parity = "e"
	cfg.Bus.Direction.Mode = ""
	cfg.Store.Backend = "MQTT"
	cfg.Store.MQTT.TopicPrefix = "site/solar//"
	cfg.Store.MQTT.ClientID = "inverter-sync-0123456789abcdef"
	cfg.Log.Level = "DEBUG"

	Normalize(cfg)

	if cfg.Bus.Transport != "tcp" {
		t.Fatalf("transport: got %q", cfg.Bus.Transport)
	}
	if cfg.Bus.Parity != "E" {
		t.Fatalf("parity: got %q", cfg.Bus.Parity)
	}
	if cfg.Bus.Direction.Mode != "none" {
		t.Fatalf("direction mode: got %q", cfg.Bus.Direction.Mode)
	}
	if cfg.Store.Backend != "mqtt" {
		t.Fatalf("backend: got %q", cfg.Store.Backend)
	}
	if cfg.Store.MQTT.TopicPrefix != "site/solar" {
		t.Fatalf("topic prefix: got %q", cfg.Store.MQTT.TopicPrefix)
	}
	if len(cfg.Store.MQTT.ClientID) != mqttClientIDMax {
		t.Fatalf("client id length: got %d", len(cfg.Store.MQTT.ClientID))
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level: got %q", cfg.Log.Level)
	}
}

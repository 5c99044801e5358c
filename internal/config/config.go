// internal/config/config.go
package config

type Config struct {
	Bus      BusConfig      `yaml:"bus" mapstructure:"bus"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Clock    ClockConfig    `yaml:"clock" mapstructure:"clock"`
	Schedule ScheduleConfig `yaml:"schedule" mapstructure:"schedule"`
	Network  NetworkConfig  `yaml:"network" mapstructure:"network"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ---- BUS ----

type BusConfig struct {
	Transport string `yaml:"transport" mapstructure:"transport"` // rtu | tcp
	Device    string `yaml:"device" mapstructure:"device"`       // serial device (rtu)
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`   // host:port (tcp)
	BaudRate  int    `yaml:"baud_rate" mapstructure:"baud_rate"`
	DataBits  int    `yaml:"data_bits" mapstructure:"data_bits"`
	Parity    string `yaml:"parity" mapstructure:"parity"` // N | E | O
	StopBits  int    `yaml:"stop_bits" mapstructure:"stop_bits"`
	SlaveID   uint8  `yaml:"slave_id" mapstructure:"slave_id"`
	TimeoutMs int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`

	// Kernel RS-485 mode (RTS driven by the UART driver).
	RS485 bool `yaml:"rs485" mapstructure:"rs485"`

	Direction DirectionConfig `yaml:"direction" mapstructure:"direction"`
	Registers RegisterConfig  `yaml:"registers" mapstructure:"registers"`
}

// DirectionConfig selects how transaction direction is switched on the line driver.
// Offsets < 0 disable the line.
type DirectionConfig struct {
	Mode  string `yaml:"mode" mapstructure:"mode"` // none | gpio
	Chip  string `yaml:"chip" mapstructure:"chip"`
	DEPin int    `yaml:"de_pin" mapstructure:"de_pin"`
	REPin int    `yaml:"re_pin" mapstructure:"re_pin"`
}

// RegisterConfig holds the start address of each register group.
type RegisterConfig struct {
	StatusPV  uint16 `yaml:"status_pv" mapstructure:"status_pv"`
	PowerGrid uint16 `yaml:"power_grid" mapstructure:"power_grid"`
	Energy    uint16 `yaml:"energy" mapstructure:"energy"`
}

// ---- STORE ----

type StoreConfig struct {
	Backend string       `yaml:"backend" mapstructure:"backend"` // mqtt | sqlite
	MQTT    MQTTConfig   `yaml:"mqtt" mapstructure:"mqtt"`
	SQLite  SQLiteConfig `yaml:"sqlite" mapstructure:"sqlite"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker" mapstructure:"broker"`
	ClientID    string `yaml:"client_id" mapstructure:"client_id"`
	Username    string `yaml:"username" mapstructure:"username"`
	Password    string `yaml:"password" mapstructure:"password"`
	TopicPrefix string `yaml:"topic_prefix" mapstructure:"topic_prefix"`
	QoS         byte   `yaml:"qos" mapstructure:"qos"`
	TimeoutMs   int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`
}

type SQLiteConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	QueueSize int    `yaml:"queue_size" mapstructure:"queue_size"`
}

// ---- CLOCK ----

type ClockConfig struct {
	Timezone     string `yaml:"timezone" mapstructure:"timezone"`
	MinValidYear int    `yaml:"min_valid_year" mapstructure:"min_valid_year"`
}

// ---- SCHEDULE ----

type ScheduleConfig struct {
	TickMs        int `yaml:"tick_ms" mapstructure:"tick_ms"`
	PollMs        int `yaml:"poll_ms" mapstructure:"poll_ms"`
	LiveMs        int `yaml:"live_ms" mapstructure:"live_ms"`
	LiveMinGapMs  int `yaml:"live_min_gap_ms" mapstructure:"live_min_gap_ms"`
	EnergyMs      int `yaml:"energy_ms" mapstructure:"energy_ms"`
	HistoryMs     int `yaml:"history_ms" mapstructure:"history_ms"`
	HealthMs      int `yaml:"health_ms" mapstructure:"health_ms"`
	EventMinGapMs int `yaml:"event_min_gap_ms" mapstructure:"event_min_gap_ms"`
}

// ---- NETWORK / HTTP / LOG ----

type NetworkConfig struct {
	Interface string `yaml:"interface" mapstructure:"interface"` // empty = any non-loopback
}

type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"` // empty disables the status server
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

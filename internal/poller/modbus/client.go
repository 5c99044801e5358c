// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"

	"github.com/tamzrod/inverter-sync/internal/rs485"
)

// Config is the bus line configuration.
type Config struct {
	Transport string // rtu | tcp
	Device    string
	Endpoint  string
	BaudRate  int
	DataBits  int
	Parity    string
	StopBits  int
	SlaveID   uint8
	Timeout   time.Duration

	// RS485 enables the kernel RS-485 mode (RTS drives the transceiver).
	RS485 bool
}

// transport is the part of a goburrow handler the client owns.
type transport interface {
	modbus.Transporter
	Connect() error
	Close() error
}

// Client implements poller.Bus over goburrow/modbus.
// It builds requests and unpacks raw responses; nothing else.
type Client struct {
	cfg      Config
	packager modbus.Packager
	tr       transport
	client   modbus.Client
}

// New creates a connected RTU or TCP client.
// A non-None direction is driven around the request bytes of every
// transaction, which only makes sense on a serial line.
func New(cfg Config, dir rs485.Direction) (*Client, error) {
	if dir == nil {
		dir = rs485.None{}
	}
	_, passive := dir.(rs485.None)

	c := &Client{cfg: cfg}

	switch strings.ToLower(cfg.Transport) {
	case "rtu":
		if cfg.Device == "" {
			return nil, errors.New("modbus client: device required")
		}
		h := modbus.NewRTUClientHandler(cfg.Device)
		h.Config = serialConfig(cfg)
		h.SlaveId = cfg.SlaveID
		h.IdleTimeout = 0 // the line stays open between polls

		c.packager = h
		if passive {
			c.tr = h
		} else {
			c.tr = &lineTransporter{cfg: h.Config, dir: dir}
		}

	case "tcp":
		if cfg.Endpoint == "" {
			return nil, errors.New("modbus client: endpoint required")
		}
		if !passive {
			return nil, errors.New("modbus client: direction control needs a serial line")
		}
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.SlaveID
		h.IdleTimeout = 0

		c.packager = h
		c.tr = h

	default:
		return nil, fmt.Errorf("modbus client: unknown transport %q", cfg.Transport)
	}

	if err := c.tr.Connect(); err != nil {
		return nil, fmt.Errorf("modbus client: connect %s: %w", c.addr(), err)
	}
	c.client = modbus.NewClient2(c.packager, c.tr)

	return c, nil
}

func serialConfig(cfg Config) serial.Config {
	sc := serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   strings.ToUpper(cfg.Parity),
		Timeout:  cfg.Timeout,
	}
	if cfg.RS485 {
		sc.RS485 = serial.RS485Config{
			Enabled:           true,
			RtsHighDuringSend: true,
		}
	}
	return sc
}

func (c *Client) addr() string {
	if strings.EqualFold(c.cfg.Transport, "tcp") {
		return c.cfg.Endpoint
	}
	return c.cfg.Device
}

// Close closes the line.
func (c *Client) Close() error {
	if c == nil || c.tr == nil {
		return nil
	}
	return c.tr.Close()
}

// Reset closes the line, reapplies the transaction parameters and reopens it.
func (c *Client) Reset() error {
	if c == nil || c.tr == nil {
		return errors.New("modbus client: not initialized")
	}

	closeErr := c.tr.Close()

	switch h := c.packager.(type) {
	case *modbus.RTUClientHandler:
		h.SlaveId = c.cfg.SlaveID
		h.Timeout = c.cfg.Timeout
	case *modbus.TCPClientHandler:
		h.SlaveId = c.cfg.SlaveID
		h.Timeout = c.cfg.Timeout
	}

	if err := c.tr.Connect(); err != nil {
		return fmt.Errorf("modbus client: reconnect %s: %w", c.addr(), err)
	}
	if closeErr != nil {
		return fmt.Errorf("modbus client: close %s: %w", c.addr(), closeErr)
	}
	return nil
}

// ---- poller.Bus interface ----

// ReadInputRegisters issues one function code 4 transaction.
func (c *Client) ReadInputRegisters(start, count uint16) ([]uint16, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("modbus client: not connected")
	}

	raw, err := c.client.ReadInputRegisters(start, count)
	if err != nil {
		return nil, classify(err)
	}
	if len(raw) != 2*int(count) {
		return nil, &Error{
			Code: CodeFrame,
			Err:  fmt.Errorf("modbus: read-registers payload %d bytes, want %d", len(raw), 2*int(count)),
		}
	}

	return unpackRegisters(raw), nil
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

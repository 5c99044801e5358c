// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/inverter-sync/internal/config"
	"github.com/tamzrod/inverter-sync/internal/inverter"
	pmodbus "github.com/tamzrod/inverter-sync/internal/poller/modbus"
	"github.com/tamzrod/inverter-sync/internal/rs485"
)

// Build opens the direction control and the bus line, and constructs a Poller.
// The returned client doubles as the link supervisor's transport resetter.
// The closer releases the line first, then parks and releases the direction lines.
func Build(b cfg.BusConfig, log zerolog.Logger) (*Poller, *pmodbus.Client, func() error, error) {
	dir, err := rs485.Open(rs485.Config{
		Mode:  b.Direction.Mode,
		Chip:  b.Direction.Chip,
		DEPin: b.Direction.DEPin,
		REPin: b.Direction.REPin,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := pmodbus.New(pmodbus.Config{
		Transport: b.Transport,
		Device:    b.Device,
		Endpoint:  b.Endpoint,
		BaudRate:  b.BaudRate,
		DataBits:  b.DataBits,
		Parity:    b.Parity,
		StopBits:  b.StopBits,
		SlaveID:   b.SlaveID,
		Timeout:   time.Duration(b.TimeoutMs) * time.Millisecond,
		RS485:     b.RS485,
	}, dir)
	if err != nil {
		dir.Close()
		return nil, nil, nil, err
	}

	groups := inverter.Groups(inverter.Layout{
		StatusPV:  b.Registers.StatusPV,
		PowerGrid: b.Registers.PowerGrid,
		Energy:    b.Registers.Energy,
	})

	p, err := New(Config{Groups: groups}, client, log)
	if err != nil {
		client.Close()
		dir.Close()
		return nil, nil, nil, err
	}

	closer := func() error {
		cerr := client.Close()
		derr := dir.Close()
		if cerr != nil {
			return cerr
		}
		return derr
	}

	return p, client, closer, nil
}

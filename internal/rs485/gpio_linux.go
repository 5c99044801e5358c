//go:build linux

// internal/rs485/gpio_linux.go
package rs485

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIO drives DE (active high) and RE (active low) lines. Both are set to
// the same level, so tying DE and RE to one pin works as well.
type GPIO struct {
	chip  *gpiocdev.Chip
	lines []*gpiocdev.Line
}

// OpenGPIO requests the configured lines as outputs parked in receive.
func OpenGPIO(chipName string, dePin, rePin int) (*GPIO, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("rs485: open gpio chip %s: %w", chipName, err)
	}

	g := &GPIO{chip: chip}
	for _, pin := range []int{dePin, rePin} {
		if pin < 0 {
			continue
		}
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("rs485: request pin %d: %w", pin, err)
		}
		g.lines = append(g.lines, line)
	}

	return g, nil
}

// Set drives every line high for Transmit, low for Receive.
func (g *GPIO) Set(m Mode) error {
	v := 0
	if m == Transmit {
		v = 1
	}
	for _, l := range g.lines {
		if err := l.SetValue(v); err != nil {
			return fmt.Errorf("rs485: set %s: %w", m, err)
		}
	}
	return nil
}

// Close parks the lines in receive and releases them.
func (g *GPIO) Close() error {
	var errs []error

	for _, l := range g.lines {
		if err := l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("park line: %w", err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	g.lines = nil

	if g.chip != nil {
		if err := g.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		g.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("rs485: close errors: %v", errs)
	}
	return nil
}

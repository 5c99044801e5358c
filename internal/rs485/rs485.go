// internal/rs485/rs485.go
//
// Package rs485 switches a half-duplex line driver between transmit and
// receive around each bus transaction.
package rs485

import (
	"fmt"
	"strings"
)

// Mode is the line driver direction.
type Mode uint8

const (
	Receive Mode = iota
	Transmit
)

func (m Mode) String() string {
	if m == Transmit {
		return "transmit"
	}
	return "receive"
}

// Direction drives the transceiver DE/RE inputs.
type Direction interface {
	Set(m Mode) error
	Close() error
}

// None is used with auto-direction adapters, kernel RS-485 mode and TCP.
type None struct{}

func (None) Set(Mode) error { return nil }
func (None) Close() error   { return nil }

// Config selects the direction control.
// Pin offsets < 0 are not driven.
type Config struct {
	Mode  string // none | gpio
	Chip  string
	DEPin int
	REPin int
}

// Open returns the Direction for cfg.
func Open(cfg Config) (Direction, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", "none":
		return None{}, nil
	case "gpio":
		g, err := OpenGPIO(cfg.Chip, cfg.DEPin, cfg.REPin)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("rs485: unknown direction mode %q", cfg.Mode)
	}
}

//go:build !linux

// internal/rs485/gpio_other.go
package rs485

import "errors"

// GPIO is not available on non-Linux platforms.
type GPIO struct{}

// OpenGPIO returns an error on non-Linux platforms.
func OpenGPIO(string, int, int) (*GPIO, error) {
	return nil, errors.New("rs485: gpio direction control requires Linux")
}

func (g *GPIO) Set(Mode) error { return errors.New("rs485: gpio not supported") }
func (g *GPIO) Close() error   { return nil }

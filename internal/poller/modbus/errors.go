// internal/poller/modbus/errors.go
package modbus

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
)

// Transport error codes. Values match the codes common RTU master
// libraries report, so dashboards read the same on every gateway.
const (
	CodeGeneric       uint16 = 1
	CodeSlaveMismatch uint16 = 0xE0
	CodeTimeout       uint16 = 0xE2
	CodeFrame         uint16 = 0xE3
)

// Error is a transport failure carrying a numeric code.
type Error struct {
	Code uint16
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (code=0x%02X)", e.Err, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// classify wraps err with the transport code it maps to.
func classify(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: codeOf(err), Err: err}
}

func codeOf(err error) uint16 {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode)
	}

	if errors.Is(err, serial.ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return CodeTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return CodeTimeout
	}

	// goburrow reports framing problems as plain formatted errors
	msg := err.Error()
	switch {
	case strings.Contains(msg, "slave id"),
		strings.Contains(msg, "unit id"),
		strings.Contains(msg, "transaction id"),
		strings.Contains(msg, "protocol id"):
		return CodeSlaveMismatch
	case strings.Contains(msg, "crc"),
		strings.Contains(msg, "length"),
		strings.Contains(msg, "does not match count"),
		strings.Contains(msg, "response data"),
		errors.Is(err, io.ErrUnexpectedEOF):
		return CodeFrame
	}

	return CodeGeneric
}

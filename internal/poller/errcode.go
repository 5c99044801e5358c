// internal/poller/errcode.go
package poller

import (
	"errors"

	pmodbus "github.com/tamzrod/inverter-sync/internal/poller/modbus"
)

// ErrorCode returns the bus error code carried by err.
// Errors that did not come from the bus adapter map to the generic code.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var be *pmodbus.Error
	if errors.As(err, &be) {
		return be.Code
	}
	return pmodbus.CodeGeneric
}

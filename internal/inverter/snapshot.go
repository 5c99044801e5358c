// internal/inverter/snapshot.go
package inverter

import "time"

// Status is the operating state reported by the inverter status register.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusWaiting
	StatusNormal
	StatusFault
)

// DecodeStatus maps the raw status code register.
func DecodeStatus(code uint16) Status {
	switch code {
	case 0:
		return StatusWaiting
	case 1:
		return StatusNormal
	case 2:
		return StatusFault
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "Waiting"
	case StatusNormal:
		return "Normal"
	case StatusFault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// Snapshot is the decoded telemetry of the last poll cycles.
// Fields are updated per register group; Valid turns true after the
// first cycle in which every group was read.
type Snapshot struct {
	PVVoltage     float64 // V
	PVCurrent     float64 // A
	ACPower       float64 // W
	GridVoltage   float64 // V
	GridCurrent   float64 // A
	GridFrequency float64 // Hz
	EnergyToday   float64 // kWh
	EnergyTotal   float64 // kWh
	WorkHours     float64 // h
	Status        Status

	Valid     bool
	UpdatedAt time.Time
}

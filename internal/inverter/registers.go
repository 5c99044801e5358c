// internal/inverter/registers.go
package inverter

import "fmt"

// Layout holds the start address of each input-register group.
type Layout struct {
	StatusPV  uint16
	PowerGrid uint16
	Energy    uint16
}

// DefaultLayout is the register map of the Growatt-class inverters this
// daemon was built against.
func DefaultLayout() Layout {
	return Layout{StatusPV: 0, PowerGrid: 35, Energy: 53}
}

// Register counts per group. Fixed: the decoders index into them.
const (
	StatusPVCount  = 5
	PowerGridCount = 5
	EnergyCount    = 6
)

// Group is one contiguous register block read in a single transaction.
type Group struct {
	Name  string
	Start uint16
	Count uint16

	decode func(regs []uint16, s *Snapshot)
}

// Groups returns the register groups in poll order.
func Groups(l Layout) []Group {
	return []Group{
		{Name: "status_pv", Start: l.StatusPV, Count: StatusPVCount, decode: decodeStatusPV},
		{Name: "power_grid", Start: l.PowerGrid, Count: PowerGridCount, decode: decodePowerGrid},
		{Name: "energy", Start: l.Energy, Count: EnergyCount, decode: decodeEnergy},
	}
}

// Decode writes this group's fields into s.
// A short block is rejected and s is left untouched.
func (g Group) Decode(regs []uint16, s *Snapshot) error {
	if len(regs) < int(g.Count) {
		return fmt.Errorf("inverter: %s: short block: got=%d want=%d", g.Name, len(regs), g.Count)
	}
	if g.decode == nil {
		return fmt.Errorf("inverter: %s: no decoder", g.Name)
	}
	g.decode(regs, s)
	return nil
}

// ---- decoders (offsets relative to group start) ----

// 0 status, 1-2 unused, 3 PV1 voltage, 4 PV1 current
func decodeStatusPV(r []uint16, s *Snapshot) {
	s.Status = DecodeStatus(r[0])
	s.PVVoltage = tenths(uint32(r[3]))
	s.PVCurrent = tenths(uint32(r[4]))
}

// 0-1 AC power, 2 grid frequency, 3 grid voltage, 4 grid current
func decodePowerGrid(r []uint16, s *Snapshot) {
	s.ACPower = tenths(pair(r[0], r[1]))
	s.GridFrequency = float64(r[2]) / 100
	s.GridVoltage = tenths(uint32(r[3]))
	s.GridCurrent = tenths(uint32(r[4]))
}

// 0-1 energy today, 2-3 energy total, 4-5 work time in half-second ticks
func decodeEnergy(r []uint16, s *Snapshot) {
	s.EnergyToday = tenths(pair(r[0], r[1]))
	s.EnergyTotal = tenths(pair(r[2], r[3]))
	s.WorkHours = float64(pair(r[4], r[5])) * 0.5 / 3600
}

// pair combines a high word and a low word.
func pair(hi, lo uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}

func tenths(raw uint32) float64 {
	return float64(raw) / 10
}

// internal/status/json.go
package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for /status.json.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

type StatusInner struct {
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	Health        HealthJSON    `json:"health"`
	Link          LinkJSON      `json:"link"`
	Telemetry     TelemetryJSON `json:"telemetry"`
	Energy        EnergyJSON    `json:"energy"`
	LastEvent     string        `json:"last_event,omitempty"`
}

type HealthJSON struct {
	NetworkConnected bool `json:"wifi_connected"`
	StoreReady       bool `json:"store_ready"`
	InverterOnline   bool `json:"inverter_online"`
}

type LinkJSON struct {
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
	LastErrorCode       uint16 `json:"last_error_code"`
	LastSuccess         string `json:"last_success,omitempty"`
}

type TelemetryJSON struct {
	Valid         bool    `json:"valid"`
	Status        string  `json:"status"`
	PVVoltage     float64 `json:"pv_voltage"`
	PVCurrent     float64 `json:"pv_current"`
	ACPower       float64 `json:"ac_power"`
	GridVoltage   float64 `json:"grid_voltage"`
	GridCurrent   float64 `json:"grid_current"`
	GridFrequency float64 `json:"grid_frequency"`
	EnergyToday   float64 `json:"energy_today_kwh"`
	EnergyTotal   float64 `json:"energy_total_kwh"`
	WorkHours     float64 `json:"work_hours"`
}

type EnergyJSON struct {
	Month      string  `json:"month,omitempty"`
	MonthlyKWh float64 `json:"monthly_baseline_kwh"`
	Year       string  `json:"year,omitempty"`
	YearlyKWh  float64 `json:"yearly_baseline_kwh"`
}

// FormatJSON renders a view for HTTP clients.
func FormatJSON(v View) []byte {
	var lastSuccess string
	if !v.Link.LastSuccess.IsZero() {
		lastSuccess = v.Link.LastSuccess.UTC().Format(time.RFC3339)
	}

	tel := v.Telemetry
	out := StatusJSON{
		Status: StatusInner{
			UptimeSeconds: int64(v.Now.Sub(v.StartTime).Truncate(time.Second).Seconds()),
			StartTime:     v.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     v.Now.UTC().Format(time.RFC3339),
			Health: HealthJSON{
				NetworkConnected: v.Health.NetworkConnected,
				StoreReady:       v.Health.StoreReady,
				InverterOnline:   v.Health.InverterOnline,
			},
			Link: LinkJSON{
				ConsecutiveFailures: v.Link.ConsecutiveFailures,
				LastErrorCode:       v.Link.LastErrorCode,
				LastSuccess:         lastSuccess,
			},
			Telemetry: TelemetryJSON{
				Valid:         tel.Valid,
				Status:        tel.Status.String(),
				PVVoltage:     tel.PVVoltage,
				PVCurrent:     tel.PVCurrent,
				ACPower:       tel.ACPower,
				GridVoltage:   tel.GridVoltage,
				GridCurrent:   tel.GridCurrent,
				GridFrequency: tel.GridFrequency,
				EnergyToday:   tel.EnergyToday,
				EnergyTotal:   tel.EnergyTotal,
				WorkHours:     tel.WorkHours,
			},
			Energy: EnergyJSON{
				Month:      v.Baselines.Month,
				MonthlyKWh: v.Baselines.MonthlyKWh,
				Year:       v.Baselines.Year,
				YearlyKWh:  v.Baselines.YearlyKWh,
			},
			LastEvent: v.LastEvent,
		},
	}

	// Marshal of plain fields cannot fail.
	b, _ := json.Marshal(out)
	return b
}

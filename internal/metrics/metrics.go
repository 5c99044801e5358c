// internal/metrics/metrics.go
//
// Package metrics exposes the engine state as Prometheus gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamzrod/inverter-sync/internal/inverter"
	"github.com/tamzrod/inverter-sync/internal/status"
)

const namespace = "inverter"

type telemetryGauge struct {
	gauge prometheus.Gauge
	value func(s *inverter.Snapshot) float64
}

// Metrics holds the gauges on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	telemetry []telemetryGauge
	status    prometheus.Gauge

	online     prometheus.Gauge
	failures   prometheus.Gauge
	errorCode  prometheus.Gauge
	storeReady prometheus.Gauge
	network    prometheus.Gauge
	uptime     prometheus.Gauge
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

// New registers every gauge on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		telemetry: []telemetryGauge{
			{newGauge("pv_voltage_volts", "PV1 input voltage."), func(s *inverter.Snapshot) float64 { return s.PVVoltage }},
			{newGauge("pv_current_amperes", "PV1 input current."), func(s *inverter.Snapshot) float64 { return s.PVCurrent }},
			{newGauge("ac_power_watts", "AC output power."), func(s *inverter.Snapshot) float64 { return s.ACPower }},
			{newGauge("grid_voltage_volts", "Grid voltage."), func(s *inverter.Snapshot) float64 { return s.GridVoltage }},
			{newGauge("grid_current_amperes", "Grid current."), func(s *inverter.Snapshot) float64 { return s.GridCurrent }},
			{newGauge("grid_frequency_hertz", "Grid frequency."), func(s *inverter.Snapshot) float64 { return s.GridFrequency }},
			{newGauge("energy_today_kwh", "Energy produced today."), func(s *inverter.Snapshot) float64 { return s.EnergyToday }},
			{newGauge("energy_total_kwh", "Lifetime energy produced."), func(s *inverter.Snapshot) float64 { return s.EnergyTotal }},
			{newGauge("work_hours", "Lifetime operating hours."), func(s *inverter.Snapshot) float64 { return s.WorkHours }},
		},
		status:     newGauge("status", "Operating status (0 unknown, 1 waiting, 2 normal, 3 fault)."),
		online:     newGauge("online", "1 when the last poll cycle succeeded."),
		failures:   newGauge("consecutive_failures", "Failed poll cycles since the last success."),
		errorCode:  newGauge("modbus_error_code", "Last bus error code."),
		storeReady: newGauge("store_ready", "1 when the remote store accepts writes."),
		network:    newGauge("network_connected", "1 when the uplink interface is connected."),
		uptime:     newGauge("uptime_seconds", "Seconds since start."),
	}

	for _, t := range m.telemetry {
		m.reg.MustRegister(t.gauge)
	}
	m.reg.MustRegister(m.status, m.online, m.failures, m.errorCode, m.storeReady, m.network, m.uptime)
	return m
}

// Registry returns the registry the gauges live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Update copies a view into the gauges.
// Telemetry gauges are left unset until the snapshot is valid.
func (m *Metrics) Update(v status.View) {
	if v.Telemetry.Valid {
		for _, t := range m.telemetry {
			t.gauge.Set(t.value(&v.Telemetry))
		}
		m.status.Set(float64(v.Telemetry.Status))
	}

	m.online.Set(boolGauge(v.Health.InverterOnline))
	m.failures.Set(float64(v.Link.ConsecutiveFailures))
	m.errorCode.Set(float64(v.Link.LastErrorCode))
	m.storeReady.Set(boolGauge(v.Health.StoreReady))
	m.network.Set(boolGauge(v.Health.NetworkConnected))
	m.uptime.Set(float64(v.Health.UptimeSeconds))
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

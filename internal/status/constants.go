// internal/status/constants.go
package status

// Remote store path layout.
// Dashboards read these paths; they MUST NOT be configurable.

// ---- SYSTEM ----

// PathWifiConnected holds the network connectivity flag.
const PathWifiConnected = "/system/wifi_connected"

// PathStoreReady holds the store readiness flag as seen by the daemon.
const PathStoreReady = "/system/firebase_ready"

// PathInverterOnline holds the bus link state.
const PathInverterOnline = "/system/inverter_online"

// PathModbusErrorCode holds the last transport error code.
const PathModbusErrorCode = "/system/modbus_error_code"

// PathUptimeSeconds holds seconds since daemon start.
const PathUptimeSeconds = "/system/uptime_seconds"

// PathLastEvent and PathLastEventTime hold the latest diagnostic event.
const PathLastEvent = "/system/last_event"
const PathLastEventTime = "/system/last_event_time"

// ---- LIVE ----

// LivePrefix is followed by the metric name, e.g. /live/ac_power.
const LivePrefix = "/live/"

// ---- KEY FORMATS ----

// Calendar keys use Go reference-time layouts.
const (
	DateLayout   = "2006-01-02"
	MonthLayout  = "2006-01"
	YearLayout   = "2006"
	MinuteLayout = "15:04"
	EventLayout  = "2006-01-02 15:04:05"
)

// ---- ENERGY / HISTORY ----

func LivePath(metric string) string { return LivePrefix + metric }

func DailyEnergyPath(date string) string { return "/energy/daily/" + date + "/kwh" }

func MonthlyBaselinePath(month string) string { return "/energy/baseline/monthly/" + month }

func MonthlyEnergyPath(month string) string { return "/energy/monthly/" + month + "/kwh" }

func YearlyBaselinePath(year string) string { return "/energy/baseline/yearly/" + year }

func YearlyEnergyPath(year string) string { return "/energy/yearly/" + year + "/kwh" }

// HistoryPath is the bucket for one minute of one day.
func HistoryPath(date, hhmm string) string { return "/history/" + date + "/" + hhmm }

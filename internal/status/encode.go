// internal/status/encode.go
package status

// Field is one path/value pair.
type Field struct {
	Path  string
	Value any
}

// Encode converts a Snapshot into the full set of health writes.
// Order and layout are fixed.
// No IO. No side effects.
func Encode(s Snapshot) []Field {
	return []Field{
		{Path: PathWifiConnected, Value: s.NetworkConnected},
		{Path: PathStoreReady, Value: s.StoreReady},
		{Path: PathInverterOnline, Value: s.InverterOnline},
		{Path: PathModbusErrorCode, Value: int64(s.LastErrorCode)},
		{Path: PathUptimeSeconds, Value: s.UptimeSeconds},
	}
}

// internal/status/snapshot.go
package status

// Snapshot represents exactly what the health reporter is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	NetworkConnected bool
	StoreReady       bool
	InverterOnline   bool
	LastErrorCode    uint16
	UptimeSeconds    int64
}

// internal/store/store.go
//
// Package store defines the remote key-value store the engine writes to.
package store

// Store accepts path -> value writes.
//
// Write is fire-and-forget: it submits and returns without waiting for an
// acknowledgement. Delivery failures are the backend's concern; the engine
// re-sends fresh data on its next interval. Values are float64, int64,
// bool or string.
type Store interface {
	Ready() bool
	Write(path string, value any)
}

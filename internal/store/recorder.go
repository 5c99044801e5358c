// internal/store/recorder.go
package store

// Entry is one recorded write.
type Entry struct {
	Path  string
	Value any
}

// Recorder is an in-memory Store. It records every write in order.
type Recorder struct {
	// Available controls the return value of Ready.
	Available bool

	Entries []Entry
}

// NewRecorder creates a ready Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Available: true}
}

func (r *Recorder) Ready() bool {
	return r.Available
}

func (r *Recorder) Write(path string, value any) {
	r.Entries = append(r.Entries, Entry{Path: path, Value: value})
}

// Paths returns the written paths in order.
func (r *Recorder) Paths() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Path
	}
	return out
}

// Last returns the most recent value written to path.
func (r *Recorder) Last(path string) (any, bool) {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Path == path {
			return r.Entries[i].Value, true
		}
	}
	return nil, false
}

// Count returns how many writes went to path.
func (r *Recorder) Count(path string) int {
	n := 0
	for _, e := range r.Entries {
		if e.Path == path {
			n++
		}
	}
	return n
}

// Reset clears recorded writes.
func (r *Recorder) Reset() {
	r.Entries = nil
}

// internal/rs485/fake.go
package rs485

// Recorder is a Direction test double that records every Set call.
type Recorder struct {
	Modes  []Mode
	Closed bool

	// SetError, if set, is returned by Set.
	SetError error
}

func (r *Recorder) Set(m Mode) error {
	if r.SetError != nil {
		return r.SetError
	}
	r.Modes = append(r.Modes, m)
	return nil
}

func (r *Recorder) Close() error {
	r.Closed = true
	return nil
}

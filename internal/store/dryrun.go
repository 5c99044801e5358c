// internal/store/dryrun.go
package store

import "github.com/rs/zerolog"

// DryRun logs every write instead of sending it anywhere.
type DryRun struct {
	log zerolog.Logger
}

func NewDryRun(log zerolog.Logger) *DryRun {
	return &DryRun{log: log.With().Str("component", "store").Str("backend", "dry-run").Logger()}
}

func (d *DryRun) Ready() bool { return true }

func (d *DryRun) Write(path string, value any) {
	d.log.Info().Str("path", path).Interface("value", value).Msg("write")
}

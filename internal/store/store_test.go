// internal/store/store_test.go
package store_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/inverter-sync/internal/store"
)

var (
	_ store.Store = (*store.Recorder)(nil)
	_ store.Store = (*store.DryRun)(nil)
)

func TestRecorder(t *testing.T) {
	r := store.NewRecorder()
	assert.True(t, r.Ready())

	r.Write("/live/ac_power", 150.0)
	r.Write("/live/status_text", "Normal")
	r.Write("/live/ac_power", 175.0)

	assert.Equal(t, []string{"/live/ac_power", "/live/status_text", "/live/ac_power"}, r.Paths())
	assert.Equal(t, 2, r.Count("/live/ac_power"))

	v, ok := r.Last("/live/ac_power")
	assert.True(t, ok)
	assert.Equal(t, 175.0, v)

	_, ok = r.Last("/live/pv_voltage")
	assert.False(t, ok)

	r.Reset()
	assert.Empty(t, r.Entries)

	r.Available = false
	assert.False(t, r.Ready())
}

func TestDryRun_LogsWrites(t *testing.T) {
	var buf bytes.Buffer
	d := store.NewDryRun(zerolog.New(&buf))

	assert.True(t, d.Ready())
	d.Write("/system/uptime_seconds", int64(42))

	assert.Contains(t, buf.String(), `"path":"/system/uptime_seconds"`)
	assert.Contains(t, buf.String(), `"value":42`)
}

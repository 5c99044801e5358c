// internal/store/sqlite/sqlite_test.go
package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/inverter-sync/internal/store"
	"github.com/tamzrod/inverter-sync/internal/store/sqlite"
)

var _ store.Store = (*sqlite.Store)(nil)

func readAll(t *testing.T, path string) map[string]string {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT path, value FROM kv`)
	require.NoError(t, err)
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var p, v string
		require.NoError(t, rows.Scan(&p, &v))
		out[p] = v
	}
	require.NoError(t, rows.Err())
	return out
}

func TestNew_Validation(t *testing.T) {
	_, err := sqlite.New(sqlite.Config{QueueSize: 4}, zerolog.Nop())
	assert.Error(t, err)

	_, err = sqlite.New(sqlite.Config{Path: filepath.Join(t.TempDir(), "x.db")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestWrite_UpsertsLatestValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.db")
	s, err := sqlite.New(sqlite.Config{Path: path, QueueSize: 16}, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, s.Ready())

	s.Write("/live/ac_power", 150.0)
	s.Write("/live/ac_power", 175.5)
	s.Write("/live/status_text", "Normal")
	s.Write("/system/inverter_online", true)

	require.NoError(t, s.Close())
	assert.False(t, s.Ready())

	got := readAll(t, path)
	assert.Equal(t, map[string]string{
		"/live/ac_power":          "175.5",
		"/live/status_text":       `"Normal"`,
		"/system/inverter_online": "true",
	}, got)
}

func TestGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := sqlite.New(sqlite.Config{Path: path, QueueSize: 4}, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	s.Write("/system/uptime_seconds", int64(12))

	assert.Eventually(t, func() bool {
		v, err := s.Get(context.Background(), "/system/uptime_seconds")
		return err == nil && v == "12"
	}, 2*time.Second, 10*time.Millisecond)

	_, err = s.Get(context.Background(), "/missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestWrite_AfterCloseIsIgnored(t *testing.T) {
	s, err := sqlite.New(sqlite.Config{Path: filepath.Join(t.TempDir(), "store.db"), QueueSize: 1}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.NotPanics(t, func() { s.Write("/live/ac_power", 1.0) })
	assert.NoError(t, s.Close())
}

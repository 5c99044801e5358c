// internal/store/sqlite/sqlite.go
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const (
	defaultDirPerm = 0o755

	createTableSQL = `
	CREATE TABLE IF NOT EXISTS kv (
	    path       TEXT PRIMARY KEY,
	    value      TEXT NOT NULL,
	    updated_at INTEGER NOT NULL
	);`

	upsertSQL = `
	INSERT INTO kv (path, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	selectSQL = `SELECT value FROM kv WHERE path = ?`
)

type Config struct {
	Path      string
	QueueSize int
}

type entry struct {
	path  string
	value []byte
	at    time.Time
}

// Store keeps the latest value per path in a local sqlite table.
// Writes are queued and applied by one writer goroutine; a full queue
// drops the write.
type Store struct {
	db  *sql.DB
	log zerolog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan entry
	done   chan struct{}

	dropped atomic.Uint64
}

func New(cfg Config, log zerolog.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: path required")
	}
	if cfg.QueueSize <= 0 {
		return nil, errors.New("sqlite: queue size must be > 0")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), defaultDirPerm); err != nil {
		return nil, fmt.Errorf("sqlite: create directory: %w", err)
	}

	dsn := cfg.Path + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	s := &Store{
		db:    db,
		log:   log.With().Str("component", "store").Str("backend", "sqlite").Logger(),
		queue: make(chan entry, cfg.QueueSize),
		done:  make(chan struct{}),
	}
	go s.writer()

	s.log.Info().Str("path", cfg.Path).Int("queue", cfg.QueueSize).Msg("store opened")
	return s, nil
}

// Ready is true until Close.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

// Write queues the JSON encoding of value for path.
func (s *Store) Write(path string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("encode value")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.queue <- entry{path: path, value: b, at: time.Now()}:
	default:
		s.dropped.Add(1)
		s.log.Debug().Str("path", path).Msg("queue full, write dropped")
	}
}

// Dropped returns the number of writes lost to a full queue.
func (s *Store) Dropped() uint64 {
	return s.dropped.Load()
}

// Get returns the stored JSON value for path.
func (s *Store) Get(ctx context.Context, path string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, selectSQL, path).Scan(&v)
	if err != nil {
		return "", fmt.Errorf("sqlite: get %s: %w", path, err)
	}
	return v, nil
}

// Close drains the queue and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sqlite: close: %w", err)
	}
	s.log.Info().Uint64("dropped", s.Dropped()).Msg("store closed")
	return nil
}

func (s *Store) writer() {
	defer close(s.done)

	stmt, err := s.db.Prepare(upsertSQL)
	if err != nil {
		s.log.Error().Err(err).Msg("prepare upsert")
		for range s.queue {
			s.dropped.Add(1)
		}
		return
	}
	defer stmt.Close()

	for e := range s.queue {
		if _, err := stmt.Exec(e.path, string(e.value), e.at.Unix()); err != nil {
			s.log.Warn().Err(err).Str("path", e.path).Msg("write failed")
		}
	}
}

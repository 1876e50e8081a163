/*
Package sqlite persists the Ledger snapshot as an opaque JSON blob in SQLite.

PURPOSE:
  The application is single-tenant and single-writer: one snapshot is current
  at any time. A key-value table with a single row is all the persistence the
  engine's contract requires - the blob is written whole after every
  successful operation and read whole on startup.

WHY A BLOB, NOT TABLES?
  The engine enforces every cross-entity invariant in memory before a
  snapshot is handed over; the store never interprets the data, so schema
  evolution never leaks into SQL. A relational breakdown would add write
  amplification without adding any integrity the engine doesn't already
  guarantee.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block the
  single writer and crash recovery is better.

USAGE:
  store, err := sqlite.New("./data/store.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: the SnapshotStore interface
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/retail-ledger/ledger"
)

const snapshotKey = "ledger"

// Store implements ledger.SnapshotStore on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored snapshot with l, serialized as JSON.
func (s *Store) Save(ctx context.Context, l *ledger.Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		snapshotKey, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when none has been saved yet.
func (s *Store) Load(ctx context.Context) (*ledger.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE key = ?`, snapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var l ledger.Ledger
	if err := json.Unmarshal([]byte(data), &l); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot: %w", err)
	}
	return &l, nil
}

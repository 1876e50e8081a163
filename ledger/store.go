/*
store.go - Snapshot persistence interface

PURPOSE:
  The engine is pure and holds no state; the surrounding application owns the
  current Ledger and persists it after every successful operation. The store
  treats the snapshot as an opaque blob - serialization format and storage
  medium are implementation concerns, never business concerns.

IMPLEMENTATIONS:
  - store/sqlite: single-row SQLite table holding the snapshot as JSON
  - store/memory: in-memory clone, for tests and dev
*/
package ledger

import "context"

// SnapshotStore persists whole Ledger snapshots. Save replaces the previous
// snapshot; Load returns nil (not an error) when no snapshot exists yet.
type SnapshotStore interface {
	Save(ctx context.Context, l *Ledger) error
	Load(ctx context.Context) (*Ledger, error)
}

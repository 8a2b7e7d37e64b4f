// Package persist durably snapshots session stroke lists to disk:
// write-temp, fsync, atomic rename, per spec.md §4.5/§7.
package persist

import (
	"driftboard/internal/board"
)

// Backend is the persistence storage contract, ported from
// original_source/server/src/storage.rs's Storage trait
// (load_session/save_session) to a synchronous Go interface.
type Backend interface {
	Load(id string) ([]board.Stroke, error)
	Save(id string, strokes []board.Stroke) error
}

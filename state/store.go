package state

import (
	"context"

	"github.com/crmarques/bloxsync/resource"
)

// Store manages the run-scoped lock ledger: loaded once, mutated entry by
// entry as actions succeed, persisted at checkpoints.
type Store interface {
	Lookup(kind resource.Kind, name string) (Entry, bool)
	Upsert(kind resource.Kind, name string, entry Entry)
	Entries(kind resource.Kind) map[string]Entry
	Universe() *UniverseSnapshot
	SetUniverse(snapshot UniverseSnapshot)
	Prune(keep map[resource.Kind][]string) []resource.Ref
	Persist(ctx context.Context) error
}

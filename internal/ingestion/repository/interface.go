package repository

import "context"

// Ledger is the append-only idempotency record of fully-processed item
// ids. Ids only ever accumulate; there is no removal.
type Ledger interface {
	// Snapshot returns all ids recorded before this call. It reflects
	// persisted state only, never uncommitted in-memory additions.
	Snapshot(ctx context.Context) (map[string]struct{}, error)

	// Commit durably records the id before returning. Committing an id
	// already present is a no-op. Safe for concurrent use.
	Commit(ctx context.Context, id string) error

	// Close releases the underlying store.
	Close() error
}

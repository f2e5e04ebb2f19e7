// Package ledger provides the keyed record store the registries run on.
//
// The store stands in for an append-only ledger's persistent storage: records
// live at deterministically derived addresses, creation at an occupied address
// fails with exactly one winner under concurrency, and records are never
// deleted. Registries own their payload encoding; the store treats payloads as
// opaque bytes.
package ledger

import "context"

// Store is the substrate contract both registries depend on.
//
// Implementations must guarantee: Create is atomic insert-if-absent (two
// concurrent creates at one address -> exactly one succeeds, the other gets
// sentinel.ErrConflict); Get returns sentinel.ErrNotFound for unoccupied
// addresses; Put replaces the payload at an occupied address and returns
// sentinel.ErrNotFound otherwise. There is no Delete.
type Store interface {
	Create(ctx context.Context, addr Address, payload []byte) error
	Get(ctx context.Context, addr Address) ([]byte, error)
	Put(ctx context.Context, addr Address, payload []byte) error
}

// Package outbound defines the outbound ports of the storefront client.
package outbound

import (
	"context"
	"time"
)

// TokenStore persists the one durable datum of the client: the opaque
// access token. Everything else is rehydrated from the API using it.
// Implementations: file-backed (prod), in-memory (test).
type TokenStore interface {
	// Load returns the persisted token, or "" when none is stored.
	Load() (string, error)

	// Save replaces the persisted token.
	Save(token string) error

	// Clear removes the persisted token. Clearing an empty store is a no-op.
	Clear() error
}

// Notifier surfaces transient, user-visible messages for completed or
// failed operations. Implementations must not block.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// HistoryEntry records the outcome of one store operation.
type HistoryEntry struct {
	ID        string
	Op        string
	Outcome   string
	Detail    string
	Duration  time.Duration
	CreatedAt time.Time
}

// Outcome values for HistoryEntry.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// HistoryStore keeps a local, bounded log of store operations.
type HistoryStore interface {
	// Record appends an entry. ID and CreatedAt are filled by the store
	// when left zero.
	Record(ctx context.Context, e HistoryEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Close releases underlying resources.
	Close() error
}

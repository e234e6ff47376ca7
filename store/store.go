package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the key is absent (or expired) in the backend. A miss
// is a normal outcome, not a backend failure.
var ErrNotFound = errors.New("cache entry not found")

// Entry is a single cached analysis result. Entries are immutable once
// written; recomputation produces a new entry rather than mutating in place.
type Entry struct {
	Key           string    `json:"key"`
	Value         []byte    `json:"value"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	SourceVersion string    `json:"sourceVersion,omitempty"`
}

// Expired reports whether the entry's lifetime has passed at time now. An
// entry with a zero ExpiresAt never expires.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Store is a key/value backend for cached analysis results. Implementations
// must be safe for concurrent use; Put for distinct keys must not interfere.
// The store does not deduplicate concurrent writers for the same key, that is
// the caller's coordination problem.
type Store interface {
	// Get returns the entry for key, or ErrNotFound if absent or expired.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put writes an entry. An existing entry under the same key is replaced.
	Put(ctx context.Context, entry *Entry) error

	// Delete removes the entry for key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// DeleteNamespace removes every entry whose key belongs to the given
	// namespace.
	DeleteNamespace(ctx context.Context, namespace string) error
}

package store

import (
	"context"
	"strings"
	"time"

	"github.com/bhanuc/analysiscache/fingerprint"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemStore is an in-process backend bounded by entry count, evicting
// least-recently-used entries when the bound is exceeded. Expiry is checked
// lazily on read, since each entry carries its own lifetime.
type MemStore struct {
	data *lru.Cache[string, *Entry]
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns a memory-backed store holding at most maxEntries
// entries.
func NewMemStore(maxEntries int) (*MemStore, error) {
	data, err := lru.New[string, *Entry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &MemStore{data: data}, nil
}

func (s *MemStore) Get(ctx context.Context, key string) (*Entry, error) {
	e, ok := s.data.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	if e.Expired(time.Now()) {
		s.data.Remove(key)
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *MemStore) Put(ctx context.Context, entry *Entry) error {
	s.data.Add(entry.Key, entry)
	return nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	s.data.Remove(key)
	return nil
}

func (s *MemStore) DeleteNamespace(ctx context.Context, namespace string) error {
	prefix := fingerprint.NamespacePrefix(namespace)
	for _, key := range s.data.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.data.Remove(key)
		}
	}
	return nil
}

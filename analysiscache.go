package analysiscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bhanuc/analysiscache/fingerprint"
	"github.com/bhanuc/analysiscache/store"
)

// ComputeFn performs the actual (expensive, external) analysis on a cache
// miss. It should be idempotent with respect to its logical input: the cache
// may invoke it again after a cancelled-but-still-running prior attempt.
type ComputeFn func(ctx context.Context) ([]byte, error)

// Cache is the analysis cache for one namespace (product vertical). Obtain
// instances through a Registry, or construct directly with New for a custom
// store backend.
type Cache struct {
	Namespace  string
	DefaultTTL time.Duration

	store store.Store
	coord *coordinator
}

// New returns a cache for the given namespace backed by st. A defaultTTL of
// zero means entries written without an explicit TTL never expire.
func New(namespace string, st store.Store, defaultTTL time.Duration) *Cache {
	return &Cache{
		Namespace:  namespace,
		DefaultTTL: defaultTTL,
		store:      st,
		coord:      newCoordinator(),
	}
}

// Key derives the cache key for an analysis input within this cache's
// namespace. Input canonicalization is the caller's responsibility.
func (c *Cache) Key(kind string, input []byte, version string) string {
	return fingerprint.Key(c.Namespace, kind, input, version)
}

// Get returns the cached value for key, computing and caching it via compute
// on a miss. Concurrent calls for the same key share a single compute
// invocation and all receive the identical result, success or failure.
// Failures are never cached. A ttl of zero or less falls back to DefaultTTL.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, compute ComputeFn) ([]byte, error) {
	return c.get(ctx, key, "", ttl, compute)
}

// GetForInput derives the key for (kind, input, version), then behaves like
// Get. The version tag is recorded on the stored entry.
func (c *Cache) GetForInput(ctx context.Context, kind string, input []byte, version string, ttl time.Duration, compute ComputeFn) ([]byte, error) {
	return c.get(ctx, c.Key(kind, input, version), version, ttl, compute)
}

func (c *Cache) get(ctx context.Context, key, version string, ttl time.Duration, compute ComputeFn) ([]byte, error) {
	entry, err := c.store.Get(ctx, key)
	if err == nil {
		cacheHits.WithLabelValues(c.Namespace).Inc()
		return entry.Value, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		// degrade to recomputation rather than failing the request
		storeReadErrors.WithLabelValues(c.Namespace).Inc()
		slog.Warn("analysis cache read failed", "namespace", c.Namespace, "key", key, "err", err)
	}
	cacheMisses.WithLabelValues(c.Namespace).Inc()

	// Coalesce concurrent requests for the same key
	p, owner := c.coord.acquire(key)
	if !owner {
		requestsCoalesced.WithLabelValues(c.Namespace).Inc()
		select {
		case <-p.done:
			return p.val, p.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	val, err := func() (v []byte, e error) {
		// a panicking computation must not strand the pending slot: release
		// the waiters with an error, then let the panic continue in the owner
		defer func() {
			if r := recover(); r != nil {
				computeErrors.WithLabelValues(c.Namespace).Inc()
				c.coord.resolve(key, p, nil, fmt.Errorf("analysis computation panicked: %v", r))
				panic(r)
			}
		}()
		return compute(ctx)
	}()
	if err != nil {
		computeErrors.WithLabelValues(c.Namespace).Inc()
		c.coord.resolve(key, p, nil, err)
		return nil, err
	}

	// An invalidation raced the computation: the value is still good for
	// everyone already waiting on it, but must not outlive the invalidation
	// in the store.
	if p.cancelled.Load() {
		c.coord.resolve(key, p, val, nil)
		return val, nil
	}

	if ttl <= 0 {
		ttl = c.DefaultTTL
	}
	now := time.Now()
	entry = &store.Entry{
		Key:           key,
		Value:         val,
		CreatedAt:     now,
		SourceVersion: version,
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}
	if err := c.store.Put(ctx, entry); err != nil {
		// the value is still correct even if not durably cached
		storeWriteErrors.WithLabelValues(c.Namespace).Inc()
		slog.Error("analysis cache write failed", "namespace", c.Namespace, "key", key, "err", err)
	} else if p.cancelled.Load() {
		// an invalidation raced the write. Invalidate sets the flag before
		// its own store delete, so either that delete removed this entry or
		// this one does; the invalidation wins both ways.
		if err := c.store.Delete(ctx, key); err != nil {
			slog.Error("analysis cache invalidation cleanup failed", "namespace", c.Namespace, "key", key, "err", err)
		}
	}
	c.coord.resolve(key, p, val, nil)
	return val, nil
}

// Invalidate removes key from the store and marks any in-flight computation
// for it as cache-dead. It never blocks on the computation's completion.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	invalidations.WithLabelValues(c.Namespace).Inc()
	c.coord.cancel(key)
	return c.store.Delete(ctx, key)
}

// InvalidateNamespace removes every entry in the given namespace and marks all
// of its in-flight computations as cache-dead. Used when an analysis kind's
// version tag changes globally.
func (c *Cache) InvalidateNamespace(ctx context.Context, namespace string) error {
	invalidations.WithLabelValues(c.Namespace).Inc()
	c.coord.cancelNamespace(namespace)
	return c.store.DeleteNamespace(ctx, namespace)
}

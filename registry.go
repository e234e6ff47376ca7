package analysiscache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bhanuc/analysiscache/store"
)

// ErrConfigConflict indicates a namespace was re-registered with a different
// configuration. Configuration must not silently change under concurrent
// callers.
var ErrConfigConflict = errors.New("namespace already registered with different config")

// Backend selects a store implementation for a namespace.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Reasonable default for the in-process backend.
const defaultMaxEntries = 10_000

// Config describes a namespace's cache at registration time. Backend
// credentials and endpoints are the store backend's concern; the cache itself
// reads no environment.
type Config struct {
	Backend    Backend
	RedisURL   string // redis backend only
	DefaultTTL time.Duration
	MaxEntries int // memory backend only
}

func (cfg Config) normalize() Config {
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	if cfg.Backend == BackendMemory && cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	return cfg
}

// Registry maps namespace names to their Cache instances. Create one at
// process start and share it; entries live for the process lifetime and are
// never implicitly reset.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*registration
}

type registration struct {
	cache *Cache
	cfg   Config
}

func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*registration)}
}

// GetOrCreate returns the cache for namespace, creating it on first access.
// A subsequent call with a different config for the same namespace fails with
// ErrConfigConflict; the same config returns the pinned instance.
func (r *Registry) GetOrCreate(namespace string, cfg Config) (*Cache, error) {
	cfg = cfg.normalize()

	r.mu.Lock()
	defer r.mu.Unlock()

	if reg, ok := r.caches[namespace]; ok {
		if reg.cfg != cfg {
			return nil, fmt.Errorf("%w: %q", ErrConfigConflict, namespace)
		}
		return reg.cache, nil
	}

	st, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating cache for namespace %q: %w", namespace, err)
	}
	c := New(namespace, st, cfg.DefaultTTL)
	r.caches[namespace] = &registration{cache: c, cfg: cfg}
	return c, nil
}

func newStore(cfg Config) (store.Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return store.NewMemStore(cfg.MaxEntries)
	case BackendRedis:
		return store.NewRedisStore(cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

package analysiscache

import (
	"strings"
	"sync/atomic"

	"github.com/bhanuc/analysiscache/fingerprint"

	"github.com/puzpuzpuz/xsync/v4"
)

// pendingComputation is the in-flight slot for one cache key. It exists only
// while a computation for that key is running and is destroyed the instant the
// computation resolves.
//
// The owner writes val and err, then closes done; waiters read the fields only
// after done is closed, so every waiter observes the identical resolution.
type pendingComputation struct {
	done      chan struct{}
	val       []byte
	err       error
	cancelled atomic.Bool
}

// coordinator guarantees at most one in-flight computation per key. Slot
// acquisition is an atomic test-and-set on the pending map; whoever stores the
// slot first owns the computation, everyone else joins as a waiter. Nothing
// else is serialized here: the store round trip and the compute function both
// run outside the map.
type coordinator struct {
	pending *xsync.Map[string, *pendingComputation]
}

func newCoordinator() *coordinator {
	return &coordinator{
		pending: xsync.NewMap[string, *pendingComputation](),
	}
}

// acquire returns the pending slot for key and whether the caller became its
// owner. The owner must eventually call resolve, on success or failure, or
// waiters block until their context expires.
func (c *coordinator) acquire(key string) (*pendingComputation, bool) {
	p := &pendingComputation{done: make(chan struct{})}
	existing, loaded := c.pending.LoadOrStore(key, p)
	if loaded {
		return existing, false
	}
	return p, true
}

// resolve publishes the result, removes the slot, and releases every waiter.
// The key is back in the Absent state before waiters wake up; the result now
// lives in the store (on success), not in the coordinator.
func (c *coordinator) resolve(key string, p *pendingComputation, val []byte, err error) {
	p.val = val
	p.err = err
	c.pending.Delete(key)
	close(p.done)
}

// cancel marks an in-flight computation for key as cache-dead. The computation
// still runs to completion (the external cost is already sunk) but its result
// is not persisted. No-op if nothing is in flight.
func (c *coordinator) cancel(key string) {
	if p, ok := c.pending.Load(key); ok {
		p.cancelled.Store(true)
	}
}

// cancelNamespace marks every in-flight computation in the namespace as
// cache-dead.
func (c *coordinator) cancelNamespace(namespace string) {
	prefix := fingerprint.NamespacePrefix(namespace)
	c.pending.Range(func(key string, p *pendingComputation) bool {
		if strings.HasPrefix(key, prefix) {
			p.cancelled.Store(true)
		}
		return true
	})
}

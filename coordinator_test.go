package analysiscache

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestCoordinatorSingleOwner(t *testing.T) {
	assert := assert.New(t)
	c := newCoordinator()

	var owners atomic.Int32
	var eg errgroup.Group
	for i := 0; i < 50; i++ {
		eg.Go(func() error {
			p, owner := c.acquire("ns/kind/k1")
			if owner {
				owners.Add(1)
				c.resolve("ns/kind/k1", p, []byte("done"), nil)
			} else {
				<-p.done
			}
			return nil
		})
	}
	assert.NoError(eg.Wait())
	assert.Equal(int32(1), owners.Load())
}

func TestCoordinatorSlotRemovedAfterResolve(t *testing.T) {
	assert := assert.New(t)
	c := newCoordinator()

	p, owner := c.acquire("ns/kind/k1")
	assert.True(owner)
	c.resolve("ns/kind/k1", p, []byte("v"), nil)

	// key is Absent again; a fresh acquire starts a new computation
	p2, owner := c.acquire("ns/kind/k1")
	assert.True(owner)
	assert.NotSame(p, p2)
	c.resolve("ns/kind/k1", p2, nil, nil)
}

func TestCoordinatorCancelNamespace(t *testing.T) {
	assert := assert.New(t)
	c := newCoordinator()

	pDev, _ := c.acquire("devograph/kind/k1")
	pGit, _ := c.acquire("gitraki/kind/k1")

	c.cancelNamespace("devograph")
	assert.True(pDev.cancelled.Load())
	assert.False(pGit.cancelled.Load())

	// cancelling a key with nothing in flight is a no-op
	c.cancel("devograph/kind/absent")
}

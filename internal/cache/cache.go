// Package cache provides a read-through cache over a flag store.
//
// Lookups by key are served from memory when possible; every write goes to
// the underlying store first and the cached entry is updated or evicted
// synchronously before the write returns, so a Get after a successful
// write never observes the old record through this process. Evaluation
// never touches the cache directly: it receives whatever record the caller
// fetched, and correctness does not depend on the cache being present.
package cache

import (
	"context"
	"sync"

	"github.com/dkoval/flagpole/internal/store"
	"github.com/dkoval/flagpole/internal/telemetry"
)

// Store decorates a store.Store with per-key read-through caching.
type Store struct {
	inner store.Store

	mu    sync.RWMutex
	flags map[string]store.Flag
}

var _ store.Store = (*Store)(nil)

// Wrap returns a caching decorator around inner.
func Wrap(inner store.Store) *Store {
	return &Store{
		inner: inner,
		flags: make(map[string]store.Flag),
	}
}

// List bypasses the cache; it is an admin path and should always reflect
// the store.
func (c *Store) List(ctx context.Context) ([]store.Flag, error) {
	return c.inner.List(ctx)
}

// Get returns the cached record for key, falling through to the store and
// priming the cache on a miss.
func (c *Store) Get(ctx context.Context, key string) (*store.Flag, error) {
	c.mu.RLock()
	flag, ok := c.flags[key]
	c.mu.RUnlock()
	if ok {
		telemetry.CacheHits.Inc()
		out := flag.Clone()
		return &out, nil
	}
	telemetry.CacheMisses.Inc()

	fresh, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.prime(*fresh)
	return fresh, nil
}

// Create writes through and primes the cache with the stored record.
func (c *Store) Create(ctx context.Context, params store.CreateParams) (*store.Flag, error) {
	flag, err := c.inner.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	c.prime(*flag)
	return flag, nil
}

// Update writes through and replaces the cached record.
func (c *Store) Update(ctx context.Context, key string, params store.UpdateParams) (*store.Flag, error) {
	flag, err := c.inner.Update(ctx, key, params)
	if err != nil {
		return nil, err
	}
	c.prime(*flag)
	return flag, nil
}

// Delete writes through and evicts the key.
func (c *Store) Delete(ctx context.Context, key string) error {
	if err := c.inner.Delete(ctx, key); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.flags, key)
	c.mu.Unlock()
	return nil
}

// Close closes the underlying store.
func (c *Store) Close() error {
	return c.inner.Close()
}

// Len reports the number of cached entries.
func (c *Store) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.flags)
}

func (c *Store) prime(flag store.Flag) {
	c.mu.Lock()
	c.flags[flag.Key] = flag.Clone()
	c.mu.Unlock()
}

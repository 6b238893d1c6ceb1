// Package cachesync implements an optimistic client-side cache for server
// state. Every mutation follows the same discipline: cancel in-flight
// refetches for the key, snapshot the cached value, apply the optimistic
// change, then either reconcile with the server's authoritative response or
// roll back to the snapshot. Mutations on the same key are serialized;
// mutations on different keys run concurrently.
package cachesync

import (
	"context"
	"sync"
)

// Cache mirrors server state keyed by string. The zero value is not usable;
// use New.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
}

type entry[V any] struct {
	// opMu serializes whole mutations per key, including the server
	// round trip, so concurrent mutations on one key queue instead of
	// applying conflicting optimistic writes.
	opMu sync.Mutex

	mu sync.Mutex // guards the fields below

	value V
	ok    bool

	// stale marks the value as needing a refetch without dropping it,
	// so readers can keep showing it while fresh data loads.
	stale bool

	refetch *refetchHandle
}

type refetchHandle struct {
	cancel context.CancelFunc
}

// Mutation describes one optimistic write against a single cache key.
type Mutation[V any] struct {
	// Key is the cache key the mutation targets.
	Key string

	// Dependents are invalidated after the mutation settles, whether it
	// succeeded or failed. A deleted message invalidates the thread list
	// too, since previews may reference it.
	Dependents []string

	// Optimistic computes the locally-applied value from the current
	// cached one before the server confirms. A nil Optimistic leaves the
	// cache untouched until Commit returns. Returning ok=false removes
	// the key optimistically.
	Optimistic func(current V, ok bool) (next V, nextOK bool)

	// Commit performs the server call and returns the authoritative
	// value. The cache replaces its entry with this value on success; it
	// never merges.
	Commit func(ctx context.Context) (V, error)
}

func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]*entry[V])}
}

func (c *Cache[V]) entry(key string) *entry[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry[V]{}
		c.entries[key] = e
	}
	return e
}

// Get returns the cached value for key. Stale values are still returned;
// use IsStale to decide whether a refetch is due.
func (c *Cache[V]) Get(key string) (V, bool) {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.ok
}

// IsStale reports whether the key holds a value that a settled mutation has
// since invalidated.
func (c *Cache[V]) IsStale(key string) bool {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ok && e.stale
}

// Set stores an authoritative value, clearing staleness.
func (c *Cache[V]) Set(key string, value V) {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
	e.ok = true
	e.stale = false
}

// Delete drops the key entirely.
func (c *Cache[V]) Delete(key string) {
	e := c.entry(key)
	e.mu.Lock()
	var zero V
	e.value = zero
	e.ok = false
	e.stale = false
	e.mu.Unlock()
}

// Invalidate marks keys stale so the next reader refetches them. Values are
// kept for display until replaced.
func (c *Cache[V]) Invalidate(keys ...string) {
	for _, key := range keys {
		e := c.entry(key)
		e.mu.Lock()
		if e.ok {
			e.stale = true
		}
		e.mu.Unlock()
	}
}

// Refetch loads a fresh value for key via fetch and stores it. The fetch
// context is cancelled if a mutation on the same key starts first, in which
// case the result is discarded and ctx.Err is returned. A refetch that loses
// the race never clobbers an optimistic write.
func (c *Cache[V]) Refetch(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	e := c.entry(key)

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	handle := &refetchHandle{cancel: cancel}

	e.mu.Lock()
	if e.refetch != nil {
		e.refetch.cancel()
	}
	e.refetch = handle
	e.mu.Unlock()

	value, err := fetch(fetchCtx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.refetch == handle {
		e.refetch = nil
	}
	if err != nil {
		var zero V
		return zero, err
	}
	if fetchCtx.Err() != nil {
		// A mutation started while we were fetching; its optimistic
		// value wins over our now-outdated read.
		var zero V
		return zero, fetchCtx.Err()
	}
	e.value = value
	e.ok = true
	e.stale = false
	return value, nil
}

// Mutate runs one optimistic mutation. Mutations on the same key queue
// behind each other, so a second rapid delete sees the first one's result
// in Optimistic and can no-op. On Commit success the cache holds the
// authoritative value; on failure the pre-mutation snapshot is restored and
// the error returned. Either way the mutation's Dependents are invalidated.
func (c *Cache[V]) Mutate(ctx context.Context, m Mutation[V]) (V, error) {
	e := c.entry(m.Key)
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()

	// Step 1: cancel any in-flight refetch so it cannot clobber the
	// optimistic write.
	if e.refetch != nil {
		e.refetch.cancel()
		e.refetch = nil
	}

	// Step 2: snapshot.
	snapshotValue, snapshotOK, snapshotStale := e.value, e.ok, e.stale

	// Step 3: optimistic apply.
	if m.Optimistic != nil {
		e.value, e.ok = m.Optimistic(e.value, e.ok)
		if !e.ok {
			var zero V
			e.value = zero
		}
		e.stale = false
	}
	e.mu.Unlock()

	authoritative, err := m.Commit(ctx)

	e.mu.Lock()
	if err != nil {
		// Step 5: rollback.
		e.value, e.ok, e.stale = snapshotValue, snapshotOK, snapshotStale
	} else {
		// Step 4: reconcile with the server's value, never merge.
		e.value = authoritative
		e.ok = true
		e.stale = false
	}
	e.mu.Unlock()

	// Step 6: settle.
	c.Invalidate(m.Dependents...)

	if err != nil {
		var zero V
		return zero, err
	}
	return authoritative, nil
}

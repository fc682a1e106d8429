package acorn

// CachedGroup tracks cache keys on behalf of one owner and releases them all
// at once. Every Add claims a reference; Dispose releases each tracked key
// exactly once. Keys are not deduplicated: adding a key twice claims and later
// releases two references.
type CachedGroup[K comparable, V any] struct {
	cache    *Cache[K, V]
	keys     []K
	disposed bool
}

// NewCachedGroup returns an empty group over c.
func NewCachedGroup[K comparable, V any](c *Cache[K, V]) *CachedGroup[K, V] {
	return &CachedGroup[K, V]{cache: c}
}

// Cache returns the cache this group references.
func (g *CachedGroup[K, V]) Cache() *Cache[K, V] {
	return g.cache
}

// Add claims a reference to key and tracks it. On a disposed group the
// reference is claimed and released immediately, as if the key had been
// tracked by a group that was already torn down. Returns ErrKeyNotFound if the
// key is not cached.
func (g *CachedGroup[K, V]) Add(key K) error {
	if err := g.cache.RefInc(key); err != nil {
		return err
	}
	if g.disposed {
		g.cache.RefDec(key)
		return nil
	}
	g.keys = append(g.keys, key)
	return nil
}

// Len returns the number of tracked references.
func (g *CachedGroup[K, V]) Len() int {
	return len(g.keys)
}

// IsDisposed reports whether Dispose has been called.
func (g *CachedGroup[K, V]) IsDisposed() bool {
	return g.disposed
}

// Dispose releases every tracked reference. Panics with ErrAlreadyDisposed on
// a second call.
func (g *CachedGroup[K, V]) Dispose() {
	if g.disposed {
		fail(ErrAlreadyDisposed, "resource", "CachedGroup")
	}
	g.disposed = true
	keys := g.keys
	g.keys = nil
	for _, key := range keys {
		g.cache.RefDec(key)
	}
}

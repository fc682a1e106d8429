package acorn

import "reflect"

//go:generate mockgen -source=cache.go -destination=mocks/mock_disposable.go -package=mocks

// Disposable is implemented by values that release resources when the cache
// drops them.
type Disposable interface {
	Dispose()
}

// DefaultGCFrames is the default number of frames an unreferenced cache entry
// survives before it is disposed.
const DefaultGCFrames = 500

// CacheOptions configures a Cache. Zero values select the defaults.
type CacheOptions struct {
	// GCFrames is the grace period, in frames, before an unreferenced entry
	// is disposed.
	GCFrames int `yaml:"gcFrames"`

	// CheckInterval is the number of frames between sweeps of the death pool.
	// Defaults to GCFrames/5 (at least 1), so the grace period is honored to
	// within one interval.
	CheckInterval int `yaml:"checkInterval"`
}

func (o CacheOptions) withDefaults() CacheOptions {
	if o.GCFrames <= 0 {
		o.GCFrames = DefaultGCFrames
	}
	if o.CheckInterval <= 0 {
		o.CheckInterval = max(1, o.GCFrames/5)
	}
	return o
}

type cacheEntry[V any] struct {
	value      V
	refCount   int
	deathTimer int
	dying      bool
}

// Cache is a reference-counted key/value store. Entries whose reference count
// is zero sit in a death pool and are disposed once their countdown runs out
// unless RefInc revives them first. Time is measured in Update calls, one per
// frame.
//
// A Cache is not safe for concurrent use; it is driven from the frame loop.
type Cache[K comparable, V any] struct {
	entries       map[K]*cacheEntry[V]
	deathPool     []K
	gcFrames      int
	checkInterval int
	timerPending  int
	collected     int
	sweepBuf      []V
}

// NewCache creates an empty cache.
func NewCache[K comparable, V any](opts CacheOptions) *Cache[K, V] {
	opts = opts.withDefaults()
	return &Cache[K, V]{
		entries:       make(map[K]*cacheEntry[V]),
		gcFrames:      opts.GCFrames,
		checkInterval: opts.CheckInterval,
		timerPending:  opts.CheckInterval,
	}
}

// Contains reports whether key is cached.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Get returns the value for key. It does not claim a reference; call RefInc
// before relying on the value outliving the current frame.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. A new entry starts with no references and
// enters the death pool, so it is collected unless someone calls RefInc.
// Replacing an existing value disposes the old one immediately and keeps the
// key's reference count.
func (c *Cache[K, V]) Set(key K, value V) {
	if e, ok := c.entries[key]; ok {
		old := e.value
		e.value = value
		// The reference count carries over: holders of the key still hold it.
		if e.dying {
			e.deathTimer = c.gcFrames
		}
		if !sameValue(old, value) {
			disposeValue(old)
		}
		return
	}
	c.entries[key] = &cacheEntry[V]{value: value, deathTimer: c.gcFrames, dying: true}
	c.deathPool = append(c.deathPool, key)
}

// GetOr returns the cached value for key, or stores and returns the result of
// factory if the key is absent.
func (c *Cache[K, V]) GetOr(key K, factory func() V) V {
	if e, ok := c.entries[key]; ok {
		return e.value
	}
	v := factory()
	c.Set(key, v)
	return v
}

// RefInc claims a reference to key, reviving it from the death pool if it had
// none. Returns ErrKeyNotFound if the key is absent.
func (c *Cache[K, V]) RefInc(key K) error {
	e, ok := c.entries[key]
	if !ok {
		return annotate(ErrKeyNotFound, "key", key)
	}
	if e.refCount == 0 {
		e.dying = false
		e.deathTimer = c.gcFrames
		c.removeFromDeathPool(key)
	}
	e.refCount++
	return nil
}

// RefDec releases a reference to key. Absent keys are ignored. Releasing an
// entry with no references panics with ErrUnbalanced. The last release puts
// the entry back in the death pool with a fresh countdown.
func (c *Cache[K, V]) RefDec(key K) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	if e.refCount <= 0 {
		fail(ErrUnbalanced, "key", key)
	}
	e.refCount--
	if e.refCount == 0 {
		e.dying = true
		e.deathTimer = c.gcFrames
		c.deathPool = append(c.deathPool, key)
	}
}

// RefCount returns the number of references held on key, or 0 if absent.
func (c *Cache[K, V]) RefCount(key K) int {
	if e, ok := c.entries[key]; ok {
		return e.refCount
	}
	return 0
}

// Len returns the number of cached entries, including dying ones.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Dying returns the number of entries in the death pool.
func (c *Cache[K, V]) Dying() int {
	return len(c.deathPool)
}

// Collected returns the total number of entries disposed by sweeps.
func (c *Cache[K, V]) Collected() int {
	return c.collected
}

// Update advances the cache by one frame. Every CheckInterval frames the
// death pool is swept: each countdown drops by CheckInterval and entries
// whose countdown falls below zero are removed and disposed.
func (c *Cache[K, V]) Update() {
	c.timerPending--
	if c.timerPending > 0 {
		return
	}
	c.timerPending = c.checkInterval
	c.sweep()
}

func (c *Cache[K, V]) sweep() {
	kept := c.deathPool[:0]
	dead := c.sweepBuf[:0]
	for _, key := range c.deathPool {
		e := c.entries[key]
		e.deathTimer -= c.checkInterval
		if e.deathTimer < 0 {
			delete(c.entries, key)
			dead = append(dead, e.value)
			if globalDebug.Load() {
				logger().Debug("cache entry collected", "key", key)
			}
			continue
		}
		kept = append(kept, key)
	}
	clear(c.deathPool[len(kept):])
	c.deathPool = kept
	c.collected += len(dead)

	// Dispose after the pool is consistent; hooks may touch the cache.
	for i, v := range dead {
		disposeValue(v)
		var zero V
		dead[i] = zero
	}
	c.sweepBuf = dead[:0]
}

func (c *Cache[K, V]) removeFromDeathPool(key K) {
	for i, k := range c.deathPool {
		if k == key {
			copy(c.deathPool[i:], c.deathPool[i+1:])
			var zero K
			c.deathPool[len(c.deathPool)-1] = zero
			c.deathPool = c.deathPool[:len(c.deathPool)-1]
			return
		}
	}
}

// Dispose disposes every cached value regardless of reference counts and
// empties the cache.
func (c *Cache[K, V]) Dispose() {
	for key, e := range c.entries {
		delete(c.entries, key)
		disposeValue(e.value)
	}
	clear(c.deathPool)
	c.deathPool = c.deathPool[:0]
}

func disposeValue(v any) {
	if d, ok := v.(Disposable); ok {
		d.Dispose()
	}
}

// sameValue reports whether a and b hold the same comparable value, so that
// re-setting a key to its current value does not dispose it.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	// Value.Comparable looks through interface fields, which Type.Comparable
	// does not; a struct holding a slice in an interface field would panic on ==.
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}

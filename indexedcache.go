package acorn

import "slices"

// IndexedCache recycles pooled objects for virtualized views by matching a
// stable integer index across layout passes.
//
// During a pass the caller obtains objects by index. Objects obtained in the
// previous pass are returned unchanged when the same index is requested again,
// so their bindings need no reset. When an index is new, the cache hands out
// the previous-pass object least likely to be needed: the one with the highest
// index when scanning forward, the lowest when scanning in reverse. Flip ends
// the pass and returns everything not reused to the pool.
type IndexedCache[T any] struct {
	pool *Pool[T]

	current map[int]T

	// previous holds last pass's objects not yet reused. previousIndices is
	// sorted ascending and may contain indices already taken.
	previous        map[int]T
	previousIndices []int
}

// NewIndexedCache returns an empty cache drawing new objects from pool.
func NewIndexedCache[T any](pool *Pool[T]) *IndexedCache[T] {
	return &IndexedCache[T]{
		pool:     pool,
		current:  make(map[int]T),
		previous: make(map[int]T),
	}
}

// Pool returns the underlying pool.
func (c *IndexedCache[T]) Pool() *Pool[T] {
	return c.pool
}

// Obtain returns the object for index in the current pass. reversed reports
// whether the caller is walking indices in decreasing order.
func (c *IndexedCache[T]) Obtain(index int, reversed bool) T {
	if v, ok := c.previous[index]; ok {
		delete(c.previous, index)
		c.current[index] = v
		return v
	}
	if v, ok := c.current[index]; ok {
		return v
	}
	var v T
	if idx, ok := c.takePrevious(reversed); ok {
		v = c.previous[idx]
		delete(c.previous, idx)
	} else {
		v = c.pool.Obtain()
	}
	c.current[index] = v
	return v
}

// takePrevious pops the front (reversed) or back (forward) live index of the
// previous generation, discarding stale indices on the way.
func (c *IndexedCache[T]) takePrevious(reversed bool) (int, bool) {
	for len(c.previousIndices) > 0 {
		var idx int
		if reversed {
			idx = c.previousIndices[0]
			c.previousIndices = c.previousIndices[1:]
		} else {
			last := len(c.previousIndices) - 1
			idx = c.previousIndices[last]
			c.previousIndices = c.previousIndices[:last]
		}
		if _, ok := c.previous[idx]; ok {
			return idx, true
		}
	}
	return 0, false
}

// ForEachUnused calls fn for each previous-pass object not yet reused in this
// pass, in ascending index order. Use it to detach views before Flip or Clear
// returns them to the pool.
func (c *IndexedCache[T]) ForEachUnused(fn func(index int, v T)) {
	for _, idx := range c.previousIndices {
		if v, ok := c.previous[idx]; ok {
			fn(idx, v)
		}
	}
}

// Unused returns the number of previous-pass objects not yet reused.
func (c *IndexedCache[T]) Unused() int {
	return len(c.previous)
}

// Len returns the number of objects obtained in the current pass.
func (c *IndexedCache[T]) Len() int {
	return len(c.current)
}

// IsEmpty reports whether the cache holds no objects in either generation.
func (c *IndexedCache[T]) IsEmpty() bool {
	return len(c.current) == 0 && len(c.previous) == 0
}

// Flip ends the current pass. Unused previous-pass objects are returned to the
// pool and the current pass becomes the previous one.
func (c *IndexedCache[T]) Flip() {
	c.Clear()
	c.previous, c.current = c.current, c.previous
	for idx := range c.previous {
		c.previousIndices = append(c.previousIndices, idx)
	}
	slices.Sort(c.previousIndices)
}

// Clear returns every unused previous-pass object to the pool.
func (c *IndexedCache[T]) Clear() {
	for _, idx := range c.previousIndices {
		if v, ok := c.previous[idx]; ok {
			c.pool.Free(v)
		}
	}
	clear(c.previous)
	c.previousIndices = c.previousIndices[:0]
}

package acorn

// Clearable is implemented by pooled objects that reset their externally
// visible state when returned to a Pool.
type Clearable interface {
	Clear()
}

// Pool is a grow-only free list. Obtain pops a free object or constructs a
// new one; Free clears the object (if Clearable) and pushes it back. After
// warmup, Obtain/Free are zero-alloc.
type Pool[T any] struct {
	factory     func() T
	free        []T
	constructed int
}

// NewPool returns an empty pool that constructs objects with factory.
func NewPool[T any](factory func() T) *Pool[T] {
	return &Pool[T]{factory: factory}
}

// Obtain returns a free object, constructing one if none are available.
func (p *Pool[T]) Obtain() T {
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		return v
	}
	p.constructed++
	return p.factory()
}

// Free clears v and returns it to the pool.
func (p *Pool[T]) Free(v T) {
	if c, ok := any(v).(Clearable); ok {
		c.Clear()
	}
	p.free = append(p.free, v)
}

// FreeAll returns every element of vs to the pool.
func (p *Pool[T]) FreeAll(vs []T) {
	for _, v := range vs {
		p.Free(v)
	}
}

// Len returns the number of free objects.
func (p *Pool[T]) Len() int {
	return len(p.free)
}

// Constructed returns the number of objects the factory has built.
func (p *Pool[T]) Constructed() int {
	return p.constructed
}

// DisposeAndClear disposes every free object that is Disposable and empties
// the pool.
func (p *Pool[T]) DisposeAndClear() {
	for i, v := range p.free {
		disposeValue(v)
		var zero T
		p.free[i] = zero
	}
	p.free = p.free[:0]
}

package rawsync

import (
	"sync/atomic"

	"github.com/llxisdsh/rawsync/internal/abort"
)

type refCell[T any] struct {
	count atomic.Uintptr
	value T
	drop  func(T)
}

// Ref is a reference-counted owning handle with a single counter and no
// weak support. Use it instead of Arc when nothing needs to observe the
// value without owning it.
//
// Handles follow the same rules as Arc: Clone to share, Drop exactly once.
type Ref[T any] struct {
	_    noCopy
	cell *refCell[T]
}

// NewRef allocates a cell holding value and returns its first handle.
func NewRef[T any](value T) *Ref[T] {
	return NewRefWithDrop(value, nil)
}

// NewRefWithDrop is like NewRef, and drop is called with the payload when
// the last handle is dropped.
func NewRefWithDrop[T any](value T, drop func(T)) *Ref[T] {
	c := &refCell[T]{value: value, drop: drop}
	c.count.Store(1)
	return &Ref[T]{cell: c}
}

func (r *Ref[T]) inner() *refCell[T] {
	c := r.cell
	if c == nil {
		panic("rawsync: use of dropped Ref")
	}
	return c
}

// Get returns the shared payload; it must not be written through unless
// GetMut would have succeeded.
func (r *Ref[T]) Get() *T {
	return &r.inner().value
}

// Clone returns a new handle to the same payload.
func (r *Ref[T]) Clone() *Ref[T] {
	c := r.inner()
	if n := c.count.Add(1) - 1; n > maxRefCount {
		abort.Fatal("rawsync: Ref count overflow", "count", n)
	}
	return &Ref[T]{cell: c}
}

// Drop releases this handle; the last one destroys the payload.
func (r *Ref[T]) Drop() {
	c := r.inner()
	r.cell = nil
	// Release.
	if c.count.Add(^uintptr(0)) != 0 {
		return
	}
	// Acquire.
	v := c.value
	var zero T
	c.value = zero
	if d := c.drop; d != nil {
		c.drop = nil
		d(v)
	}
}

// GetMut returns the payload for writing if this is the only handle.
func (r *Ref[T]) GetMut() (*T, bool) {
	c := r.inner()
	// Acquire: other handles' drops happen before our writes.
	if c.count.Load() != 1 {
		return nil, false
	}
	return &c.value, true
}

// Count returns the number of live handles.
func (r *Ref[T]) Count() int {
	return int(r.inner().count.Load())
}

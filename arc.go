package rawsync

import (
	"sync/atomic"

	"github.com/llxisdsh/rawsync/internal/abort"
)

const (
	// refLocked is the weak count while GetMut checks for uniqueness.
	refLocked = ^uintptr(0)
	// maxRefCount is the largest count a Clone may start from. Anything
	// above it means a leak or a bug, and wrapping around would free a
	// live cell.
	maxRefCount = ^uintptr(0) >> 1
)

// arcCell is the shared allocation behind Arc and Weak.
//
// strong counts owning handles. weak counts Weak handles plus one unit
// held collectively by all strong handles, so the cell outlives the
// payload for as long as anyone can still ask about it.
type arcCell[T any] struct {
	strong atomic.Uintptr
	weak   atomic.Uintptr
	value  T
	drop   func(T)
}

// destroy runs the payload's drop hook and clears the slot. Called exactly
// once, by whoever moved strong to zero.
func (c *arcCell[T]) destroy() {
	v := c.value
	var zero T
	c.value = zero
	if c.drop != nil {
		c.drop(v)
	}
}

// dropWeak releases one weak unit and frees the cell with the last one.
func (c *arcCell[T]) dropWeak() {
	// Release.
	if c.weak.Add(^uintptr(0)) != 0 {
		return
	}
	// Acquire: synchronizes with every earlier release of a weak unit.
	c.drop = nil
}

// Arc is an atomically reference-counted owning handle to a value of
// type T.
//
// Each handle is owned by one goroutine at a time: share the value by
// handing out Clone results, and call Drop exactly once per handle. The
// payload's drop hook runs exactly once, after the last strong handle is
// dropped. A Weak handle observes the value without keeping it alive.
//
// Usage:
//
//	a := NewArcWithDrop(conn, func(c *Conn) { c.Close() })
//	b := a.Clone()
//	go func() {
//		defer b.Drop()
//		use(*b.Get())
//	}()
//	a.Drop()
type Arc[T any] struct {
	_    noCopy
	cell *arcCell[T]
}

// Weak is a non-owning handle to the value of an Arc. Upgrade turns it
// into an Arc while at least one strong handle is alive.
type Weak[T any] struct {
	_    noCopy
	cell *arcCell[T]
}

// NewArc allocates a cell holding value and returns its first strong handle.
func NewArc[T any](value T) *Arc[T] {
	return NewArcWithDrop(value, nil)
}

// NewArcWithDrop is like NewArc, and drop is called with the payload when
// the last strong handle is dropped.
func NewArcWithDrop[T any](value T, drop func(T)) *Arc[T] {
	c := &arcCell[T]{value: value, drop: drop}
	c.strong.Store(1)
	c.weak.Store(1)
	return &Arc[T]{cell: c}
}

func (a *Arc[T]) inner() *arcCell[T] {
	c := a.cell
	if c == nil {
		panic("rawsync: use of dropped Arc")
	}
	return c
}

// Get returns the shared payload. Other handles may read it concurrently,
// so it must not be written through unless GetMut would have succeeded.
func (a *Arc[T]) Get() *T {
	return &a.inner().value
}

// Clone returns a new strong handle to the same payload.
func (a *Arc[T]) Clone() *Arc[T] {
	c := a.inner()
	// Relaxed: derived from a handle we hold, nothing to publish.
	if n := c.strong.Add(1) - 1; n > maxRefCount {
		abort.Fatal("rawsync: Arc strong count overflow", "count", n)
	}
	return &Arc[T]{cell: c}
}

// Drop releases this handle. The last strong handle destroys the payload.
// The handle must not be used afterwards.
func (a *Arc[T]) Drop() {
	c := a.inner()
	a.cell = nil
	// Release: publishes this handle's writes to whoever destroys the payload.
	if c.strong.Add(^uintptr(0)) != 0 {
		return
	}
	// Acquire: every other handle's writes happen before the destruction.
	c.destroy()
	c.dropWeak()
}

// IntoInner releases this handle and, if it was the last strong one,
// returns the payload instead of destroying it; the drop hook does not run.
// Otherwise it returns false and the payload stays with the other handles.
func (a *Arc[T]) IntoInner() (T, bool) {
	c := a.inner()
	a.cell = nil
	var zero T
	if c.strong.Add(^uintptr(0)) != 0 {
		return zero, false
	}
	v := c.value
	c.value = zero
	c.dropWeak()
	return v, true
}

// Downgrade returns a Weak handle to the payload.
func (a *Arc[T]) Downgrade() *Weak[T] {
	c := a.inner()
	var spins int
	n := c.weak.Load()
	for {
		if n == refLocked {
			// GetMut holds the weak count for a moment.
			relax(&spins)
			n = c.weak.Load()
			continue
		}
		if n > maxRefCount {
			abort.Fatal("rawsync: Arc weak count overflow", "count", n)
		}
		// Acquire: pairs with the release store in GetMut.
		if c.weak.CompareAndSwap(n, n+1) {
			return &Weak[T]{cell: c}
		}
		n = c.weak.Load()
	}
}

// GetMut returns the payload for writing if this is the only handle of any
// kind, strong or weak. It never clones or allocates.
func (a *Arc[T]) GetMut() (*T, bool) {
	c := a.inner()
	// Acquire. Locking the weak count keeps Downgrade out while strong is
	// checked; a new strong handle could only come from a Weak.
	if !c.weak.CompareAndSwap(1, refLocked) {
		return nil, false
	}
	unique := c.strong.Load() == 1
	// Release.
	c.weak.Store(1)
	if !unique {
		return nil, false
	}
	return &c.value, true
}

// StrongCount returns the number of strong handles.
func (a *Arc[T]) StrongCount() int {
	return int(a.inner().strong.Load())
}

// WeakCount returns the number of Weak handles.
func (a *Arc[T]) WeakCount() int {
	n := a.inner().weak.Load()
	if n == refLocked {
		// Locked by GetMut, which only succeeds from exactly one unit.
		return 0
	}
	return int(n - 1)
}

// PtrEqual reports whether a and b share the same cell.
func (a *Arc[T]) PtrEqual(b *Arc[T]) bool {
	return a.inner() == b.inner()
}

func (w *Weak[T]) inner() *arcCell[T] {
	c := w.cell
	if c == nil {
		panic("rawsync: use of dropped Weak")
	}
	return c
}

// Upgrade returns a new strong handle, or false once the last strong handle
// has been dropped.
func (w *Weak[T]) Upgrade() (*Arc[T], bool) {
	c := w.inner()
	n := c.strong.Load()
	for {
		// Zero is final: the payload is gone or going.
		if n == 0 {
			return nil, false
		}
		if n > maxRefCount {
			abort.Fatal("rawsync: Arc strong count overflow", "count", n)
		}
		// Relaxed.
		if c.strong.CompareAndSwap(n, n+1) {
			return &Arc[T]{cell: c}, true
		}
		n = c.strong.Load()
	}
}

// Clone returns a new Weak handle to the same cell.
func (w *Weak[T]) Clone() *Weak[T] {
	c := w.inner()
	if n := c.weak.Add(1) - 1; n > maxRefCount {
		abort.Fatal("rawsync: Arc weak count overflow", "count", n)
	}
	return &Weak[T]{cell: c}
}

// Drop releases this handle. The handle must not be used afterwards.
func (w *Weak[T]) Drop() {
	c := w.inner()
	w.cell = nil
	c.dropWeak()
}

// StrongCount returns the number of strong handles still alive.
func (w *Weak[T]) StrongCount() int {
	return int(w.inner().strong.Load())
}

package rawsync

import (
	"math"
	"sync/atomic"
)

// SpinRWLock is a spin-based Reader-Writer lock around a value of type T.
//
// It is the simple form of RWLock: readers spin-retry an increment of the
// reader count, writers spin-retry a swap of the free state to a write
// sentinel, and nobody parks. Writers get no priority, so a steady stream
// of readers can starve them. Prefer RWLock unless contention is known to
// be low and critical sections are tiny.
//
// The zero value is an unlocked SpinRWLock holding the zero T.
//
// Size: 4 bytes (plus padding) + T.
type SpinRWLock[T any] struct {
	_ noCopy
	// state is the number of readers, or spinWriteLocked.
	state atomic.Uint32
	value T
}

// SpinReadGuard grants shared access to the value of a read-locked SpinRWLock.
type SpinReadGuard[T any] SpinRWLock[T]

// SpinWriteGuard grants exclusive access to the value of a write-locked SpinRWLock.
type SpinWriteGuard[T any] SpinRWLock[T]

const spinWriteLocked = math.MaxUint32

// NewSpinRWLock creates an unlocked SpinRWLock holding value.
func NewSpinRWLock[T any](value T) *SpinRWLock[T] {
	return &SpinRWLock[T]{value: value}
}

// RLock acquires a read lock.
// Success: state is not the write sentinel. Increment reader count.
func (rw *SpinRWLock[T]) RLock() *SpinReadGuard[T] {
	var spins int
	for {
		s := rw.state.Load()
		if s < spinWriteLocked-2 {
			// Acquire.
			if rw.state.CompareAndSwap(s, s+1) {
				return (*SpinReadGuard[T])(rw)
			}
		}
		delay(&spins)
	}
}

// Lock acquires the write lock.
// It spins until there are no readers and no writer.
func (rw *SpinRWLock[T]) Lock() *SpinWriteGuard[T] {
	var spins int
	for {
		// Optimistic check: is it completely free?
		if rw.state.Load() == 0 && rw.state.CompareAndSwap(0, spinWriteLocked) {
			return (*SpinWriteGuard[T])(rw)
		}
		delay(&spins)
	}
}

// Value returns a copy of the protected value.
func (g *SpinReadGuard[T]) Value() T {
	return g.value
}

// Get returns the protected value. Readers share it: it must not be
// written through, nor used after RUnlock.
func (g *SpinReadGuard[T]) Get() *T {
	return &g.value
}

// RUnlock releases a read lock.
func (g *SpinReadGuard[T]) RUnlock() {
	s := g.state.Load()
	for {
		// No readers, or write-locked: validated before the decrement so
		// a recovered panic leaves the lock usable.
		if s == 0 || s == spinWriteLocked {
			panic("rawsync: RUnlock of unlocked SpinRWLock")
		}
		// Release.
		if g.state.CompareAndSwap(s, s-1) {
			return
		}
		s = g.state.Load()
	}
}

// Get returns the protected value for reading and writing.
func (g *SpinWriteGuard[T]) Get() *T {
	return &g.value
}

// Value returns a copy of the protected value.
func (g *SpinWriteGuard[T]) Value() T {
	return g.value
}

// Unlock releases the write lock.
func (g *SpinWriteGuard[T]) Unlock() {
	if g.state.Load() != spinWriteLocked {
		panic("rawsync: unlock of unlocked SpinRWLock")
	}
	// Release.
	g.state.Store(0)
}

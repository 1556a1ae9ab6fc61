package rawsync

import (
	"sync/atomic"
)

// SpinLock is a busy-wait mutual exclusion lock around a value of type T.
//
// A contended Lock never parks: it spins on the flag and yields the
// processor until the flag clears. There is no fairness. It is meant for
// critical sections of a few memory accesses; anything longer belongs in a
// Mutex.
//
// The zero value is an unlocked SpinLock holding the zero T.
//
// Usage:
//
//	var l SpinLock[[]int]
//	g := l.Lock()
//	*g.Get() = append(*g.Get(), 1)
//	g.Unlock()
//
// Size: 1 byte flag (plus padding) + T.
type SpinLock[T any] struct {
	_      noCopy
	locked atomic.Bool
	value  T
}

// SpinGuard grants exclusive access to the value of a held SpinLock.
// Unlock is the only way to release the lock.
type SpinGuard[T any] SpinLock[T]

// NewSpinLock creates an unlocked SpinLock holding value.
func NewSpinLock[T any](value T) *SpinLock[T] {
	return &SpinLock[T]{value: value}
}

// Lock acquires the lock, spinning until it is free.
func (l *SpinLock[T]) Lock() *SpinGuard[T] {
	// Acquire.
	if l.locked.Swap(true) {
		l.lockSlow()
	}
	return (*SpinGuard[T])(l)
}

func (l *SpinLock[T]) lockSlow() {
	var spins int
	for {
		// Spin on a plain load so the cache line stays shared until the
		// holder releases it.
		for l.locked.Load() {
			relax(&spins)
		}
		if !l.locked.Swap(true) {
			return
		}
	}
}

// TryLock acquires the lock only if it is free.
func (l *SpinLock[T]) TryLock() (*SpinGuard[T], bool) {
	if l.locked.Load() || !l.locked.CompareAndSwap(false, true) {
		return nil, false
	}
	return (*SpinGuard[T])(l), true
}

// Get returns the protected value for reading and writing.
// The pointer must not be used after Unlock.
func (g *SpinGuard[T]) Get() *T {
	return &g.value
}

// Value returns a copy of the protected value.
func (g *SpinGuard[T]) Value() T {
	return g.value
}

// Unlock releases the lock.
func (g *SpinGuard[T]) Unlock() {
	if !g.locked.Load() {
		panic("rawsync: unlock of unlocked SpinLock")
	}
	// Release.
	g.locked.Store(false)
}

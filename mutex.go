package rawsync

import (
	"sync/atomic"

	"github.com/llxisdsh/rawsync/internal/futex"
)

const (
	mutexUnlocked  = 0 // unlocked
	mutexLocked    = 1 // locked, no waiters
	mutexContended = 2 // locked, other goroutines may be parked
)

// rawMutex is the three-state lock word behind Mutex. Condvar releases and
// reacquires it directly.
//
// Lock and Unlock only touch the futex when they must: an uncontended Lock
// never waits, and an Unlock that saw no contention never wakes.
type rawMutex struct {
	state atomic.Uint32
}

func (m *rawMutex) lock() {
	// Acquire.
	if m.state.CompareAndSwap(mutexUnlocked, mutexLocked) {
		return
	}
	m.lockSlow()
}

func (m *rawMutex) lockSlow() {
	// Spin briefly while the holder runs without waiters; a short critical
	// section ends before a park would pay off.
	var spins int
	for m.state.Load() == mutexLocked && trySpin(&spins) {
	}
	if m.state.CompareAndSwap(mutexUnlocked, mutexLocked) {
		return
	}
	// Whoever ends up holding the lock from here on sees mutexContended and
	// wakes someone on Unlock, so parking is safe.
	for m.state.Swap(mutexContended) != mutexUnlocked {
		futex.Wait(&m.state, mutexContended)
	}
}

func (m *rawMutex) tryLock() bool {
	return m.state.Load() == mutexUnlocked &&
		m.state.CompareAndSwap(mutexUnlocked, mutexLocked)
}

func (m *rawMutex) unlock() {
	// Release.
	switch m.state.Swap(mutexUnlocked) {
	case mutexUnlocked:
		panic("rawsync: unlock of unlocked Mutex")
	case mutexContended:
		futex.WakeOne(&m.state)
	}
}

// Mutex is a blocking mutual exclusion lock around a value of type T.
//
// The lock word has three states (unlocked, locked, contended), so the
// uncontended path is a single CompareAndSwap and Unlock wakes a parked
// goroutine only when one may exist.
//
// The zero value is an unlocked Mutex holding the zero T.
//
// Usage:
//
//	m := NewMutex(map[string]int{})
//	g := m.Lock()
//	defer g.Unlock()
//	(*g.Get())["k"]++
type Mutex[T any] struct {
	_     noCopy
	mu    rawMutex
	value T
}

// MutexGuard grants exclusive access to the value of a held Mutex.
// Unlock is the only way to release the lock. A guard is a view of the
// Mutex itself, so locking never allocates.
type MutexGuard[T any] Mutex[T]

// NewMutex creates an unlocked Mutex holding value.
func NewMutex[T any](value T) *Mutex[T] {
	return &Mutex[T]{value: value}
}

// Lock acquires the lock, parking the goroutine while it is held elsewhere.
func (m *Mutex[T]) Lock() *MutexGuard[T] {
	m.mu.lock()
	return (*MutexGuard[T])(m)
}

// TryLock acquires the lock only if it is free.
func (m *Mutex[T]) TryLock() (*MutexGuard[T], bool) {
	if !m.mu.tryLock() {
		return nil, false
	}
	return (*MutexGuard[T])(m), true
}

// Get returns the protected value for reading and writing.
// The pointer must not be used after Unlock.
func (g *MutexGuard[T]) Get() *T {
	return &g.value
}

// Value returns a copy of the protected value.
func (g *MutexGuard[T]) Value() T {
	return g.value
}

// Unlock releases the lock and wakes one parked goroutine if there was
// contention.
func (g *MutexGuard[T]) Unlock() {
	g.mu.unlock()
}

func (g *MutexGuard[T]) condMutex() *rawMutex {
	return &g.mu
}

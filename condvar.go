package rawsync

import (
	"sync/atomic"

	"github.com/llxisdsh/rawsync/internal/futex"
)

// Condvar is a condition variable for goroutines holding a Mutex guard.
//
// It keeps a generation counter that every notify bumps and a count of
// parked waiters, so NotifyOne/NotifyAll skip the wake entirely when
// nobody waits.
//
// Wait may return spuriously. Always re-check the condition in a loop, or
// use WaitWhile:
//
//	g := m.Lock()
//	for !ready(g.Get()) {
//		cv.Wait(g)
//	}
//	g.Unlock()
//
// The zero value is ready to use.
//
// Size: 8 bytes.
type Condvar struct {
	_       noCopy
	counter atomic.Uint32
	waiters atomic.Uint32
}

// CondGuard is a held lock guard that a Condvar can release and reacquire.
// It is implemented by *MutexGuard.
type CondGuard interface {
	condMutex() *rawMutex
}

// Wait atomically releases g's mutex and parks until notified, then
// reacquires the mutex. g is held again when Wait returns.
func (c *Condvar) Wait(g CondGuard) {
	m := g.condMutex()

	// Both reads happen before the unlock: a notify issued after the
	// caller's predicate check bumps the counter past gen, so the futex
	// wait below cannot sleep through it.
	gen := c.counter.Load()
	c.waiters.Add(1)

	m.unlock()
	futex.Wait(&c.counter, gen)
	c.waiters.Add(^uint32(0))
	m.lock()
}

// NotifyOne wakes one goroutine blocked in Wait, if any.
func (c *Condvar) NotifyOne() {
	c.counter.Add(1)
	if c.waiters.Load() != 0 {
		futex.WakeOne(&c.counter)
	}
}

// NotifyAll wakes every goroutine blocked in Wait.
func (c *Condvar) NotifyAll() {
	c.counter.Add(1)
	if c.waiters.Load() != 0 {
		futex.WakeAll(&c.counter)
	}
}

// WaitWhile blocks on c while cond reports true for the guarded value,
// absorbing spurious wakeups. g is held whenever cond runs and on return.
func WaitWhile[T any](c *Condvar, g *MutexGuard[T], cond func(*T) bool) {
	for cond(&g.value) {
		c.Wait(g)
	}
}

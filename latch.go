package rawsync

import (
	"sync/atomic"

	"github.com/llxisdsh/rawsync/internal/futex"
)

// Latch is a synchronization primitive for "wait for completion" (One-Way Door).
// It supports multiple waiters.
// Once Open() is called, all current and future Wait() calls return immediately.
// It is 4 bytes in size and parks waiters on the futex.
type Latch struct {
	_ noCopy
	// state 32-bit:
	//   bit 0: open flag
	//   bit 1: someone is (or is about to be) parked
	state atomic.Uint32
}

const (
	latchOpen    = 1
	latchWaiting = 2
)

// Open opens the door.
// It wakes up all currently blocked waiters, and skips the wake when there
// are none. Open() is idempotent (can be called multiple times).
func (l *Latch) Open() {
	// Release: everything written before Open is visible after Wait.
	if l.state.Swap(latchOpen)&latchWaiting != 0 {
		futex.WakeAll(&l.state)
	}
}

// Wait blocks until Open is called.
// If Open has already been called, it returns immediately.
func (l *Latch) Wait() {
	for {
		s := l.state.Load()
		if s&latchOpen != 0 {
			return
		}
		if s == 0 && !l.state.CompareAndSwap(0, latchWaiting) {
			continue
		}
		futex.Wait(&l.state, latchWaiting)
	}
}

// IsOpen reports whether Open has been called. It is a plain snapshot:
// false does not mean a following Wait will block.
func (l *Latch) IsOpen() bool {
	return l.state.Load()&latchOpen != 0
}

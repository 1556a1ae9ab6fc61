package rawsync

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/rawsync/internal/abort"
	"github.com/llxisdsh/rawsync/internal/futex"
	"github.com/llxisdsh/rawsync/internal/opt"
)

// RWLock is a blocking Reader-Writer lock around a value of type T.
//
// Properties:
//   - Writer-Preferred: a waiting writer blocks newly arriving readers, so a
//     steady read load cannot starve writers. Readers already inside finish.
//   - Parks on the futex instead of spinning.
//
// State layout (32-bit):
//
//	bit 0:     writer pending
//	bits 1-31: reader count
//	MaxUint32: write-locked (odd, so readers treat it as "writer present")
//
// Writers park on a separate wake counter so that reader traffic on the
// state word does not wake them.
//
// The zero value is an unlocked RWLock holding the zero T.
type RWLock[T any] struct {
	_     noCopy
	state atomic.Uint32
	_     [(opt.CacheLineSize_ - unsafe.Sizeof(atomic.Uint32{})%opt.CacheLineSize_) % opt.CacheLineSize_ * opt.PaddingMult_]byte
	// writerWake is bumped every time a writer might be able to proceed.
	writerWake atomic.Uint32
	value      T
}

// ReadGuard grants shared access to the value of a read-locked RWLock.
type ReadGuard[T any] RWLock[T]

// WriteGuard grants exclusive access to the value of a write-locked RWLock.
type WriteGuard[T any] RWLock[T]

const (
	rwWriterPending = 1
	rwReadUnit      = 2
	rwWriteLocked   = math.MaxUint32
	// rwMaxState is the highest reader state that can still take a reader.
	rwMaxState = math.MaxUint32 - 3
)

// NewRWLock creates an unlocked RWLock holding value.
func NewRWLock[T any](value T) *RWLock[T] {
	return &RWLock[T]{value: value}
}

// RLock acquires a read lock, parking while a writer holds or waits for
// the lock.
func (rw *RWLock[T]) RLock() *ReadGuard[T] {
	s := rw.state.Load()
	for {
		if s&rwWriterPending == 0 {
			if s > rwMaxState {
				abort.Fatal("rawsync: too many RWLock readers", "state", s)
			}
			// Acquire.
			if rw.state.CompareAndSwap(s, s+rwReadUnit) {
				return (*ReadGuard[T])(rw)
			}
			s = rw.state.Load()
			continue
		}
		futex.Wait(&rw.state, s)
		s = rw.state.Load()
	}
}

// TryRLock acquires a read lock only if no writer holds or waits for it.
func (rw *RWLock[T]) TryRLock() (*ReadGuard[T], bool) {
	s := rw.state.Load()
	for s&rwWriterPending == 0 {
		if s > rwMaxState {
			abort.Fatal("rawsync: too many RWLock readers", "state", s)
		}
		if rw.state.CompareAndSwap(s, s+rwReadUnit) {
			return (*ReadGuard[T])(rw), true
		}
		s = rw.state.Load()
	}
	return nil, false
}

// Lock acquires the write lock. It announces itself first, which stops new
// readers, then parks until the readers inside have left.
func (rw *RWLock[T]) Lock() *WriteGuard[T] {
	s := rw.state.Load()
	for {
		// No readers: take it, pending bit or not.
		if s <= rwWriterPending {
			// Acquire.
			if rw.state.CompareAndSwap(s, rwWriteLocked) {
				return (*WriteGuard[T])(rw)
			}
			s = rw.state.Load()
			continue
		}
		// Readers inside: block new ones.
		if s&rwWriterPending == 0 {
			if !rw.state.CompareAndSwap(s, s+rwWriterPending) {
				s = rw.state.Load()
				continue
			}
		}
		// Snapshot the wake counter before re-checking, so a wake between
		// the check and the park is not missed.
		w := rw.writerWake.Load()
		s = rw.state.Load()
		if s >= rwReadUnit {
			futex.Wait(&rw.writerWake, w)
			s = rw.state.Load()
		}
	}
}

// TryLock acquires the write lock only if there are no readers and no
// writer holding it.
func (rw *RWLock[T]) TryLock() (*WriteGuard[T], bool) {
	s := rw.state.Load()
	if s > rwWriterPending || !rw.state.CompareAndSwap(s, rwWriteLocked) {
		return nil, false
	}
	return (*WriteGuard[T])(rw), true
}

// Value returns a copy of the protected value.
func (g *ReadGuard[T]) Value() T {
	return g.value
}

// Get returns the protected value. Readers share it: it must not be
// written through, nor used after RUnlock.
func (g *ReadGuard[T]) Get() *T {
	return &g.value
}

// RUnlock releases a read lock. The last reader out wakes a pending writer.
func (g *ReadGuard[T]) RUnlock() {
	// Checked before the decrement, so a recovered panic leaves the lock
	// as it was.
	s := g.state.Load()
	for {
		if s < rwReadUnit || s == rwWriteLocked {
			panic("rawsync: RUnlock of unlocked RWLock")
		}
		// Release.
		if g.state.CompareAndSwap(s, s-rwReadUnit) {
			break
		}
		s = g.state.Load()
	}
	if s-rwReadUnit == rwWriterPending {
		g.writerWake.Add(1)
		futex.WakeOne(&g.writerWake)
	}
}

// Get returns the protected value for reading and writing.
func (g *WriteGuard[T]) Get() *T {
	return &g.value
}

// Value returns a copy of the protected value.
func (g *WriteGuard[T]) Value() T {
	return g.value
}

// Unlock releases the write lock, waking one waiting writer and every
// parked reader; they race for the lock again.
func (g *WriteGuard[T]) Unlock() {
	if g.state.Load() != rwWriteLocked {
		panic("rawsync: unlock of unlocked RWLock")
	}
	// Release.
	g.state.Store(0)
	g.writerWake.Add(1)
	futex.WakeOne(&g.writerWake)
	futex.WakeAll(&g.state)
}

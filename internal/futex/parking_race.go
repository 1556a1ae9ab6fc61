//go:build !(linux && rawsync_futex) && race

package futex

import (
	"runtime"
	"sync/atomic"
)

// Under the race detector the lot is a fixed table of slots, each a map of
// queues behind an atomic spin flag. pb.MapOf reads its buckets with plain
// loads on TSO hardware, which the detector reports; here every access to
// a queue is ordered by the flag.
const lotSlots = 64

type lotSlot struct {
	locked atomic.Bool
	queues map[uintptr]*parkQueue
}

var lot [lotSlots]lotSlot

func slotOf(k uintptr) *lotSlot {
	return &lot[(k>>3^k>>9)%lotSlots]
}

func (s *lotSlot) lock() {
	// Acquire.
	for s.locked.Swap(true) {
		runtime.Gosched()
	}
}

func (s *lotSlot) unlock() {
	// Release.
	s.locked.Store(false)
}

// Wait blocks the calling goroutine while word holds expected.
func Wait(word *atomic.Uint32, expected uint32) {
	k := key(word)
	s := slotOf(k)
	w := waiters.Get().(*waiter)

	s.lock()
	// Same contract as the default lot: the word is re-checked with the
	// slot held, and wakers change the word before taking it.
	if word.Load() != expected {
		s.unlock()
		waiters.Put(w)
		return
	}
	if s.queues == nil {
		s.queues = make(map[uintptr]*parkQueue)
	}
	q := s.queues[k]
	if q == nil {
		q = &parkQueue{}
		s.queues[k] = q
	}
	q.push(w)
	s.unlock()

	w.sema.Acquire()
	waiters.Put(w)
}

// WakeOne unblocks the longest-parked goroutine waiting on word, if any.
func WakeOne(word *atomic.Uint32) {
	k := key(word)
	s := slotOf(k)

	s.lock()
	q := s.queues[k]
	if q == nil {
		s.unlock()
		return
	}
	w := q.pop()
	if q.head == nil {
		delete(s.queues, k)
	}
	s.unlock()

	if w != nil {
		w.sema.Release()
	}
}

// WakeAll unblocks every goroutine parked on word.
func WakeAll(word *atomic.Uint32) {
	k := key(word)
	s := slotOf(k)

	s.lock()
	q := s.queues[k]
	delete(s.queues, k)
	s.unlock()

	if q == nil {
		return
	}
	for w := q.pop(); w != nil; w = q.pop() {
		w.sema.Release()
	}
}

// Parked reports how many goroutines are parked on word.
func Parked(word *atomic.Uint32) int {
	k := key(word)
	s := slotOf(k)

	s.lock()
	defer s.unlock()
	if q := s.queues[k]; q != nil {
		return q.n
	}
	return 0
}

//go:build !(linux && rawsync_futex) && !race

package futex

import (
	"sync/atomic"

	"github.com/llxisdsh/pb"
)

type lotEntry = pb.EntryOf[uintptr, *parkQueue]

var lot pb.MapOf[uintptr, *parkQueue]

// Wait blocks the calling goroutine while word holds expected.
func Wait(word *atomic.Uint32, expected uint32) {
	w := waiters.Get().(*waiter)
	parked := false
	lot.ProcessEntry(
		key(word),
		func(e *lotEntry) (*lotEntry, *parkQueue, bool) {
			// Checked under the entry lock: a waker changes the word first and
			// takes this lock second, so it either sees us queued or we see
			// its change here.
			if word.Load() != expected {
				return e, nil, false
			}
			parked = true
			if e != nil {
				e.Value.push(w)
				return e, e.Value, true
			}
			q := &parkQueue{}
			q.push(w)
			return &lotEntry{Value: q}, q, false
		},
	)
	if parked {
		w.sema.Acquire()
	}
	waiters.Put(w)
}

// WakeOne unblocks the longest-parked goroutine waiting on word, if any.
func WakeOne(word *atomic.Uint32) {
	var w *waiter
	lot.ProcessEntry(
		key(word),
		func(e *lotEntry) (*lotEntry, *parkQueue, bool) {
			if e == nil {
				return nil, nil, false
			}
			w = e.Value.pop()
			if e.Value.head == nil {
				return nil, nil, true
			}
			return e, e.Value, true
		},
	)
	if w != nil {
		w.sema.Release()
	}
}

// WakeAll unblocks every goroutine parked on word.
func WakeAll(word *atomic.Uint32) {
	var q *parkQueue
	lot.ProcessEntry(
		key(word),
		func(e *lotEntry) (*lotEntry, *parkQueue, bool) {
			if e == nil {
				return nil, nil, false
			}
			q = e.Value
			return nil, nil, true
		},
	)
	if q == nil {
		return
	}
	// Detached from the lot: nobody else can reach q now.
	for w := q.pop(); w != nil; w = q.pop() {
		w.sema.Release()
	}
}

// Parked reports how many goroutines are parked on word.
func Parked(word *atomic.Uint32) int {
	var n int
	lot.ProcessEntry(
		key(word),
		func(e *lotEntry) (*lotEntry, *parkQueue, bool) {
			if e == nil {
				return nil, nil, false
			}
			n = e.Value.n
			return e, e.Value, true
		},
	)
	return n
}

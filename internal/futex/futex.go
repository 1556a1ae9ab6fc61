// Package futex provides the wait/wake facility the lock words park on.
//
//   - Wait(word, expected) blocks while *word == expected. It may return
//     spuriously, so callers re-check their condition in a loop.
//   - WakeOne(word) / WakeAll(word) unblock one / all goroutines parked on
//     the word.
//
// A waker must change the word before calling WakeOne/WakeAll. Wait checks
// the word again after it has been queued, so a change made before the
// wake can never be slept through.
//
// The default backend is a process-local parking lot keyed by the word's
// address. On Linux, -tags=rawsync_futex switches to the futex(2) syscall.
package futex

import (
	"sync/atomic"
	"unsafe"
)

//go:nosplit
func key(word *atomic.Uint32) uintptr {
	return uintptr(unsafe.Pointer(word))
}

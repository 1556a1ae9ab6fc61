//go:build linux && rawsync_futex

package futex

import (
	"math"
	"sync/atomic"

	"github.com/llxisdsh/rawsync/internal/abort"
	"golang.org/x/sys/unix"
)

const (
	futexWait        = 0
	futexWake        = 1
	futexPrivateFlag = 128

	futexWaitPrivate = futexWait | futexPrivateFlag
	futexWakePrivate = futexWake | futexPrivateFlag
)

// Wait blocks the calling thread in futex(2) while word holds expected.
func Wait(word *atomic.Uint32, expected uint32) {
	_, _, e := unix.Syscall6(unix.SYS_FUTEX,
		key(word),
		futexWaitPrivate,
		uintptr(expected),
		0, 0, 0)
	switch e {
	case 0, unix.EAGAIN, unix.EINTR:
		// Woken, value already changed, or interrupted: all spurious-safe.
	default:
		abort.Fatal("futex wait failed", "errno", e)
	}
}

// WakeOne unblocks at most one thread waiting on word.
func WakeOne(word *atomic.Uint32) {
	wake(word, 1)
}

// WakeAll unblocks every thread waiting on word.
func WakeAll(word *atomic.Uint32) {
	wake(word, math.MaxInt32)
}

func wake(word *atomic.Uint32, n uintptr) {
	_, _, e := unix.Syscall6(unix.SYS_FUTEX,
		key(word),
		futexWakePrivate,
		n,
		0, 0, 0)
	if e != 0 {
		abort.Fatal("futex wake failed", "errno", e)
	}
}

// Parked is unknown to user space with the kernel backend; it returns -1.
func Parked(*atomic.Uint32) int {
	return -1
}

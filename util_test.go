package rawsync

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/llxisdsh/rawsync/internal/abort"
	"github.com/llxisdsh/rawsync/internal/futex"
)

type fatalError string

// expectFatal runs fn with the abort handler swapped for a panic and
// reports whether fn hit a fatal report containing want.
func expectFatal(t *testing.T, want string, fn func()) {
	t.Helper()
	restore := abort.Swap(func(msg string, _ ...any) {
		panic(fatalError(msg))
	})
	defer restore()
	defer func() {
		t.Helper()
		r := recover()
		msg, ok := r.(fatalError)
		if !ok {
			t.Fatalf("recovered %v, want fatal %q", r, want)
		}
		if !strings.Contains(string(msg), want) {
			t.Fatalf("fatal %q, want %q", msg, want)
		}
	}()
	fn()
}

// expectPanic reports whether fn panics with a message containing want.
func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("recovered %v, want panic %q", r, want)
		}
		if !strings.Contains(msg, want) {
			t.Fatalf("panic %q, want %q", msg, want)
		}
	}()
	fn()
}

// waitParked waits until at least n goroutines are parked on word.
func waitParked(t *testing.T, word *atomic.Uint32, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		got := futex.Parked(word)
		if got < 0 {
			// Kernel backend: the count is not observable.
			time.Sleep(50 * time.Millisecond)
			return
		}
		if got >= n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("parked = %d, want %d", got, n)
		}
		time.Sleep(time.Millisecond)
	}
}

// within fails the test if fn does not return in d.
func within(t *testing.T, d time.Duration, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("%s did not finish within %v", what, d)
	}
}

func isOneTwoTwo(s []int) bool {
	return len(s) == 3 &&
		((s[0] == 1 && s[1] == 2 && s[2] == 2) ||
			(s[0] == 2 && s[1] == 2 && s[2] == 1))
}

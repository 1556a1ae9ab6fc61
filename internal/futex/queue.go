//go:build !(linux && rawsync_futex)

package futex

import (
	"sync"

	"github.com/llxisdsh/rawsync/internal/opt"
)

// waiter is one parked goroutine. next is protected by its slot in the lot.
type waiter struct {
	sema opt.Sema
	next *waiter
}

// parkQueue is the FIFO of goroutines parked on one address.
// It is only touched while its slot in the lot is locked.
type parkQueue struct {
	head *waiter
	tail *waiter
	n    int
}

func (q *parkQueue) push(w *waiter) {
	w.next = nil
	if q.tail == nil {
		q.head = w
	} else {
		q.tail.next = w
	}
	q.tail = w
	q.n++
}

func (q *parkQueue) pop() *waiter {
	w := q.head
	if w == nil {
		return nil
	}
	q.head = w.next
	if q.head == nil {
		q.tail = nil
	}
	w.next = nil
	q.n--
	return w
}

var waiters = sync.Pool{New: func() any { return new(waiter) }}

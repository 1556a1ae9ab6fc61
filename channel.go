package rawsync

import (
	list "github.com/bahlo/generic-list-go"
)

// Channel is an unbounded multi-producer multi-consumer FIFO queue.
//
// It is a Mutex-guarded list plus a Condvar signalling that items are
// available. Messages are delivered in the order their Send acquired the
// lock, so every producer's own messages arrive in the order it sent them.
//
// The zero value is an empty Channel. Share it by pointer, or wrap it in an
// Arc whose drop hook calls Drain to dispose of undelivered messages.
type Channel[T any] struct {
	_         noCopy
	queue     Mutex[*list.List[T]]
	itemReady Condvar
}

// NewChannel creates an empty Channel.
func NewChannel[T any]() *Channel[T] {
	c := &Channel[T]{}
	c.queue.value = list.New[T]()
	return c
}

func (c *Channel[T]) lock() *MutexGuard[*list.List[T]] {
	g := c.queue.Lock()
	if q := g.Get(); *q == nil {
		*q = list.New[T]()
	}
	return g
}

// Send appends value to the queue. It never blocks on the consumer side.
func (c *Channel[T]) Send(value T) {
	g := c.lock()
	q := g.Value()
	q.PushBack(value)
	// Only the transition to non-empty needs a wake: while items are
	// pending, receivers are either busy or already woken.
	first := q.Len() == 1
	g.Unlock()
	if first {
		c.itemReady.NotifyOne()
	}
}

// Recv removes and returns the oldest message, blocking while the queue is
// empty.
func (c *Channel[T]) Recv() T {
	g := c.lock()
	WaitWhile(&c.itemReady, g, func(q **list.List[T]) bool {
		return (*q).Len() == 0
	})
	q := g.Value()
	v := q.Remove(q.Front())
	more := q.Len() > 0
	g.Unlock()
	// Sends that arrived while the queue was non-empty did not notify; pass
	// the wake on so another receiver picks up the rest.
	if more {
		c.itemReady.NotifyOne()
	}
	return v
}

// TryRecv removes and returns the oldest message if there is one.
func (c *Channel[T]) TryRecv() (T, bool) {
	g := c.lock()
	defer g.Unlock()
	q := g.Value()
	if q.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.Remove(q.Front()), true
}

// Len returns the number of pending messages.
func (c *Channel[T]) Len() int {
	g := c.lock()
	defer g.Unlock()
	return g.Value().Len()
}

// Drain removes and returns every pending message, oldest first.
func (c *Channel[T]) Drain() []T {
	g := c.lock()
	defer g.Unlock()
	q := g.Value()
	out := make([]T, 0, q.Len())
	for e := q.Front(); e != nil; e = q.Front() {
		out = append(out, q.Remove(e))
	}
	return out
}

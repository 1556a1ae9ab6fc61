package rawsync

// oneshotCell is the state shared by a OneshotSender and its receiver.
//
// message is written once by Send before ready opens and read once by the
// receiver after it observed ready open. taken is written by the receiver
// before it drops its handle, which the last Arc drop orders before
// teardown.
type oneshotCell[T any] struct {
	message T
	ready   Latch
	taken   bool
	drop    func(T)
}

// teardown runs when the last handle goes away. A message that was sent
// but never received is destroyed here; an unsent slot holds nothing.
func (c *oneshotCell[T]) teardown() {
	if c.ready.IsOpen() && !c.taken && c.drop != nil {
		c.drop(c.message)
	}
	var zero T
	c.message = zero
}

// OneshotSender is the sending half of a oneshot channel.
type OneshotSender[T any] struct {
	ch *Arc[*oneshotCell[T]]
}

// OneshotReceiver is the receiving half of a oneshot channel.
type OneshotReceiver[T any] struct {
	ch *Arc[*oneshotCell[T]]
}

// NewOneshot creates a channel that carries exactly one message from one
// sender to one receiver. The handoff is a single store of the message and
// a single flag publication, with no lock.
//
// Usage:
//
//	tx, rx := NewOneshot[int]()
//	go tx.Send(42)
//	v := rx.Recv() // or: poll rx.IsReady(), then rx.Receive()
func NewOneshot[T any]() (*OneshotSender[T], *OneshotReceiver[T]) {
	return NewOneshotWithDrop[T](nil)
}

// NewOneshotWithDrop is like NewOneshot, and drop is called with a message
// that was sent but never received once both halves are gone.
func NewOneshotWithDrop[T any](drop func(T)) (*OneshotSender[T], *OneshotReceiver[T]) {
	ch := NewArcWithDrop(&oneshotCell[T]{drop: drop}, (*oneshotCell[T]).teardown)
	return &OneshotSender[T]{ch: ch.Clone()}, &OneshotReceiver[T]{ch: ch}
}

// Send delivers message and consumes the sender. It never blocks.
// A second call panics.
func (s *OneshotSender[T]) Send(message T) {
	ch := s.ch
	if ch == nil {
		panic("rawsync: Send on used OneshotSender")
	}
	s.ch = nil
	c := *ch.Get()
	c.message = message
	// Release: publishes the message.
	c.ready.Open()
	ch.Drop()
}

// Drop releases the sender without sending.
// A receiver blocked in Recv stays blocked.
func (s *OneshotSender[T]) Drop() {
	if ch := s.ch; ch != nil {
		s.ch = nil
		ch.Drop()
	}
}

func (r *OneshotReceiver[T]) cell() *oneshotCell[T] {
	if r.ch == nil {
		panic("rawsync: use of used OneshotReceiver")
	}
	return *r.ch.Get()
}

// IsReady reports whether the message has been sent. It is a best-effort
// poll: false does not mean a later Receive would fail.
func (r *OneshotReceiver[T]) IsReady() bool {
	return r.cell().ready.IsOpen()
}

// Receive returns the message and consumes the receiver, without blocking.
//
// The caller must already know the message is there: IsReady returned
// true, or another happens-before edge (a join, a channel) follows Send.
// Receive does not wait; calling it early panics. A second call panics.
func (r *OneshotReceiver[T]) Receive() T {
	c := r.cell()
	// Acquire: pairs with the publication in Send.
	if !c.ready.IsOpen() {
		panic("rawsync: Receive on oneshot before the message is ready")
	}
	m := c.message
	var zero T
	c.message = zero
	c.taken = true
	ch := r.ch
	r.ch = nil
	ch.Drop()
	return m
}

// Recv blocks until the message has been sent, then receives it.
func (r *OneshotReceiver[T]) Recv() T {
	r.cell().ready.Wait()
	return r.Receive()
}

// Drop releases the receiver without receiving. A message that was already
// sent is destroyed once the sender is gone too.
func (r *OneshotReceiver[T]) Drop() {
	if ch := r.ch; ch != nil {
		r.ch = nil
		ch.Drop()
	}
}

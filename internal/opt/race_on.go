//go:build race

package opt

import (
	"sync/atomic"
)

// Race_ reports whether the race detector is enabled.
// Under the race detector spinners yield instead of burning their budget,
// which keeps instrumented tests from starving the lock holder.
const Race_ = true

// Sema under race detector: the runtime semaphore carries no race
// annotations, so every Release also bumps an atomic counter that the
// matching Acquire reads. The detector sees that pair as the
// happens-before edge.
type Sema struct {
	sema    uint32
	handoff atomic.Uint32
}

// Acquire blocks until the semaphore count is positive, then decrements it.
func (s *Sema) Acquire() {
	runtime_semacquire(&s.sema)
	s.handoff.Load()
}

// Release increments the semaphore count and wakes one blocked Acquire.
func (s *Sema) Release() {
	s.handoff.Add(1)
	runtime_semrelease(&s.sema, false, 0)
}

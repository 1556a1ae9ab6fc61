//go:build !race

package opt

// Race_ reports whether the race detector is enabled.
const Race_ = false

// Sema is a zero-allocation semaphore optimized for performance.
// In !race mode, it is a direct wrapper around runtime.semacquire/semrelease,
// so a Release that happens before the matching Acquire is not lost.
type Sema uint32

// Acquire blocks until the semaphore count is positive, then decrements it.
func (s *Sema) Acquire() {
	runtime_semacquire((*uint32)(s))
}

// Release increments the semaphore count and wakes one blocked Acquire.
func (s *Sema) Release() {
	runtime_semrelease((*uint32)(s), false, 0)
}

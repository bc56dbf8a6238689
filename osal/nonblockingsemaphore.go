package osal

import "sync"

// NonBlockingSemaphoreCallback is invoked once the semaphore the call
// queued on has become available. It runs in the context of whichever
// thread calls Post, not the thread that originally called Wait.
type NonBlockingSemaphoreCallback func()

// NonBlockingSemaphore is the non-blocking counterpart to Semaphore (spec
// §4.5): instead of suspending the calling thread, Wait either succeeds
// immediately or queues a callback to be invoked, in FIFO order, from a
// future Post.
type NonBlockingSemaphore struct {
	mu       sync.Mutex
	count    uint32
	waiters  []NonBlockingSemaphoreCallback
	released bool
}

// NewNonBlockingSemaphore returns a NonBlockingSemaphore initialized to
// initialCount.
func NewNonBlockingSemaphore(initialCount uint32) *NonBlockingSemaphore {
	return &NonBlockingSemaphore{count: initialCount}
}

// Wait decrements the semaphore's count and returns true if it is currently
// greater than zero. Otherwise it enqueues cb and returns false; cb will be
// invoked exactly once, from a future Post, once the count becomes
// available to it.
func (s *NonBlockingSemaphore) Wait(cb NonBlockingSemaphoreCallback) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count > 0 {
		s.count--
		return true
	}
	if cb == nil {
		PanicMsg("NonBlockingSemaphore.Wait: cb must not be nil when the wait cannot be satisfied immediately")
	}
	s.waiters = append(s.waiters, cb)
	return false
}

// Post increments the semaphore's count. If callbacks are queued, the
// oldest one is invoked instead (count is left unchanged, having been
// handed directly to that waiter), in the caller's own context. It panics
// on count overflow.
func (s *NonBlockingSemaphore) Post() {
	s.mu.Lock()
	if len(s.waiters) != 0 {
		cb := s.waiters[0]
		s.waiters = s.waiters[1:]
		s.mu.Unlock()
		cb()
		return
	}
	if s.count >= maxSemaphoreCount {
		s.mu.Unlock()
		PanicMsg("NonBlockingSemaphore.Post: count overflow")
		return
	}
	s.count++
	s.mu.Unlock()
}

// Close marks s as destroyed. It panics if any callbacks are still queued,
// matching GPCC's "no waiters at destruction time" invariant: a queued
// callback that never fires would silently wedge its owner forever.
func (s *NonBlockingSemaphore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	if len(s.waiters) != 0 {
		PanicMsg("NonBlockingSemaphore.Close: waiters still queued")
		return
	}
	s.released = true
}

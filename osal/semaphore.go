package osal

import (
	"sync"
	"time"
)

// maxSemaphoreCount mirrors the host-OS cap GPCC documents for its blocking
// semaphore implementation; Post beyond it is a programming error.
const maxSemaphoreCount = 1<<31 - 1

// Semaphore is a classic counting semaphore with blocking Wait (spec §4.4).
// The zero value is usable with an initial count of zero; use NewSemaphore
// to start at a different count.
type Semaphore struct {
	mu      sync.Mutex
	count   uint32
	waiters []*waiter
}

// NewSemaphore returns a Semaphore initialized to initialCount.
func NewSemaphore(initialCount uint32) *Semaphore {
	return &Semaphore{count: initialCount}
}

// Post increments the semaphore's count, releasing one blocked waiter (in
// FIFO order) if any are queued. It panics if the count would overflow.
func (s *Semaphore) Post() {
	s.mu.Lock()
	if len(s.waiters) != 0 {
		w := s.waiters[0]
		s.waiters = s.waiters[1:]
		s.mu.Unlock()
		w.Release()
		return
	}
	if s.count >= maxSemaphoreCount {
		s.mu.Unlock()
		PanicMsg("Semaphore.Post: count overflow")
		return
	}
	s.count++
	s.mu.Unlock()
}

// Wait blocks until the semaphore's count is greater than zero, then
// decrements it. It never carries a timeout (spec §4.4): callers that need
// a bounded wait must compose Wait with their own cancellation mechanism.
func (s *Semaphore) Wait() {
	s.mu.Lock()
	if s.count > 0 {
		s.count--
		s.mu.Unlock()
		return
	}
	w := newWaiter()
	w.Prepare(false, time.Time{}, "Semaphore.Wait")
	s.waiters = append(s.waiters, w)
	s.mu.Unlock()

	w.Park()
}

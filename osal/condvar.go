package osal

import (
	"container/list"
	"sync"
	"time"
)

// ConditionVariable is a wait-set; its timed waits use MonotonicCoarse
// deadlines (the clock is fixed, not stored per condition variable). The
// zero value is a usable, empty condition variable.
type ConditionVariable struct {
	mu      sync.Mutex
	waiters list.List // of *waiter
}

// Wait atomically unlocks mutex and blocks the calling thread on cv; mutex
// must be the most recently locked mutex held by the calling thread. On
// return (via Signal, Broadcast, or a spurious wake-up) mutex is relocked.
// Spurious wake-ups are permitted: callers must re-check their predicate in
// a loop.
func (cv *ConditionVariable) Wait(mutex *Mutex) {
	cv.waitImpl(mutex, false, time.Time{})
}

// TimeLimitedWait is like Wait but also bounds the wait by absoluteTimeout,
// interpreted on MonotonicCoarse. It returns true if it returned because of
// the timeout, false if woken by Signal/Broadcast. mutex is relocked before
// returning in every case.
func (cv *ConditionVariable) TimeLimitedWait(mutex *Mutex, absoluteTimeout time.Time) (timedOut bool) {
	return cv.waitImpl(mutex, true, absoluteTimeout)
}

func (cv *ConditionVariable) waitImpl(mutex *Mutex, hasDeadline bool, deadline time.Time) (timedOut bool) {
	if top := topHeldMutex(); top != mutex {
		PanicMsg("ConditionVariable.Wait: mutex is not the most recently locked mutex of this thread")
	}

	w := newWaiter()

	cv.mu.Lock()
	el := cv.waiters.PushBack(w)
	cv.mu.Unlock()

	// mutex must actually be released, and this thread's block must only be
	// reported to TFC afterwards: this thread's own Unlock is very often
	// what lets another blocked thread make progress, and registering the
	// block first would have TFC see every live thread as blocked (this one
	// included, even though it still owns the mutex) and declare a false
	// dead-lock. Enqueuing above, before the unlock, is still required so a
	// Signal/Broadcast racing in from another goroutine between the unlock
	// and Prepare below cannot lose the wake-up; waiter.Prepare/Release
	// reconcile that ordering (see backend_tfc.go, backend_notfc.go).
	mutex.Unlock()
	w.Prepare(hasDeadline, deadline, "ConditionVariable.Wait")
	timedOut = w.Park()

	if timedOut {
		// Remove ourselves if Signal/Broadcast didn't already do so (it's a
		// no-op otherwise; container/list.Remove on an element already
		// dropped by Broadcast's Init would corrupt the list, so guard on
		// el.Value, which Signal/Broadcast set to nil when they take it).
		cv.mu.Lock()
		if el.Value != nil {
			cv.waiters.Remove(el)
		}
		cv.mu.Unlock()
	}

	mutex.Lock()
	return timedOut
}

// Signal releases exactly one waiter, if any, chosen by host-OS policy; it
// is lost if there are currently none.
func (cv *ConditionVariable) Signal() {
	cv.mu.Lock()
	front := cv.waiters.Front()
	if front == nil {
		cv.mu.Unlock()
		return
	}
	w := cv.waiters.Remove(front).(*waiter)
	front.Value = nil
	cv.mu.Unlock()
	w.Release()
}

// Broadcast releases every thread currently enqueued on cv.
func (cv *ConditionVariable) Broadcast() {
	cv.mu.Lock()
	var toWake []*waiter
	for el := cv.waiters.Front(); el != nil; {
		next := el.Next()
		toWake = append(toWake, el.Value.(*waiter))
		el.Value = nil
		el = next
	}
	cv.waiters.Init()
	cv.mu.Unlock()
	for _, w := range toWake {
		w.Release()
	}
}

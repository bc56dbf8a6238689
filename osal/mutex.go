package osal

import (
	"container/list"
	"sync"
	"time"
)

// Mutex is a non-recursive exclusive lock with a hidden owner field (spec
// §4.1). The zero value is an unlocked, usable Mutex.
type Mutex struct {
	mu      sync.Mutex
	locked  bool
	owner   *Thread
	waiters list.List // of *muWaiter, FIFO
}

type muWaiter struct {
	w      *waiter
	thread *Thread
}

// Lock blocks until the mutex is free, then claims ownership. Calling Lock
// again from the thread that already owns it is a programming error and
// panics rather than deadlocking silently.
func (m *Mutex) Lock() {
	self := CurrentThread()
	gid := goroutineID()
	mutexStackMu.Lock()
	for _, h := range mutexStacks[gid] {
		if h == m {
			mutexStackMu.Unlock()
			PanicMsg("Mutex.Lock: thread already owns this mutex")
			return
		}
	}
	mutexStackMu.Unlock()
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.owner = self
		m.mu.Unlock()
		pushHeldMutex(m)
		return
	}
	if self != nil && m.owner == self {
		m.mu.Unlock()
		PanicMsg("Mutex.Lock: thread already owns this mutex")
		return
	}
	w := newWaiter()
	w.Prepare(false, time.Time{}, "Mutex.Lock")
	m.waiters.PushBack(&muWaiter{w: w, thread: self})
	m.mu.Unlock()

	w.Park()
	// Unlock() has already transferred ownership (m.owner, m.locked) to us.
	pushHeldMutex(m)
}

// TryLock attempts to acquire the mutex without blocking and reports whether
// it succeeded.
func (m *Mutex) TryLock() bool {
	self := CurrentThread()
	m.mu.Lock()
	if m.locked {
		m.mu.Unlock()
		return false
	}
	m.locked = true
	m.owner = self
	m.mu.Unlock()
	pushHeldMutex(m)
	return true
}

// Unlock releases ownership of the mutex. It must be called by the thread
// that holds it; calling it from any other thread, or when the mutex is not
// held, is a programming error and panics. Ownership is recorded as the
// owning *Thread, and every goroutine not started via Thread.Start has the
// same (nil) owner, so an Unlock by one such goroutine of a mutex held by
// another such goroutine is not detected.
func (m *Mutex) Unlock() {
	self := CurrentThread()
	m.mu.Lock()
	if !m.locked {
		m.mu.Unlock()
		PanicMsg("Mutex.Unlock: mutex is not locked")
		return
	}
	if m.owner != self {
		m.mu.Unlock()
		PanicMsg("Mutex.Unlock: called by a thread other than the owner")
		return
	}

	front := m.waiters.Front()
	if front == nil {
		m.locked = false
		m.owner = nil
		m.mu.Unlock()
		popHeldMutex(m)
		return
	}
	mw := m.waiters.Remove(front).(*muWaiter)
	m.owner = mw.thread // ownership transfers directly; m.locked stays true.
	m.mu.Unlock()
	popHeldMutex(m)
	mw.w.Release()
}

// IsLocked reports whether the mutex is currently held by any thread. The
// result is racy the instant it's read in the presence of concurrent
// Lock/Unlock calls; it exists for diagnostics (spec E1) not synchronization.
func (m *Mutex) IsLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Owner returns the thread currently holding the mutex, or nil if it is
// free (or held by an unmanaged goroutine).
func (m *Mutex) Owner() *Thread {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner
}

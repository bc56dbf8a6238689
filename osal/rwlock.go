package osal

import (
	"container/list"
	"sync"
	"time"
)

// RWLock is a writer-starvation-free reader/writer lock (spec §4.3): once a
// writer has queued, no reader that arrives afterwards is granted before it,
// which bounds the number of readers that can cut in front of a waiting
// writer to the ones already running when it queued.
type RWLock struct {
	mu          sync.Mutex
	readers     int
	writerOwner bool
	queue       list.List // of *rwWaiter, FIFO
}

type rwWaiter struct {
	w       *waiter
	isWrite bool
	granted bool
}

// ReadLock blocks until a shared lock can be granted.
func (rw *RWLock) ReadLock() {
	rw.acquire(false, false, time.Time{})
}

// TryReadLock attempts to acquire a shared lock without blocking.
func (rw *RWLock) TryReadLock() bool {
	rw.mu.Lock()
	if !rw.writerOwner && rw.queue.Len() == 0 {
		rw.readers++
		rw.mu.Unlock()
		return true
	}
	rw.mu.Unlock()
	return false
}

// ReadLockTimeout blocks until a shared lock is granted or absoluteTimeout
// elapses, whichever comes first. It returns false on timeout.
func (rw *RWLock) ReadLockTimeout(absoluteTimeout time.Time) bool {
	return rw.acquire(false, true, absoluteTimeout)
}

// WriteLock blocks until an exclusive lock can be granted.
func (rw *RWLock) WriteLock() {
	rw.acquire(true, false, time.Time{})
}

// TryWriteLock attempts to acquire an exclusive lock without blocking.
func (rw *RWLock) TryWriteLock() bool {
	rw.mu.Lock()
	if !rw.writerOwner && rw.readers == 0 && rw.queue.Len() == 0 {
		rw.writerOwner = true
		rw.mu.Unlock()
		return true
	}
	rw.mu.Unlock()
	return false
}

// WriteLockTimeout blocks until an exclusive lock is granted or
// absoluteTimeout elapses, whichever comes first. It returns false on
// timeout.
func (rw *RWLock) WriteLockTimeout(absoluteTimeout time.Time) bool {
	return rw.acquire(true, true, absoluteTimeout)
}

func (rw *RWLock) acquire(isWrite bool, hasDeadline bool, deadline time.Time) bool {
	rw.mu.Lock()
	if !isWrite && !rw.writerOwner && rw.queue.Len() == 0 {
		rw.readers++
		rw.mu.Unlock()
		return true
	}
	if isWrite && !rw.writerOwner && rw.readers == 0 && rw.queue.Len() == 0 {
		rw.writerOwner = true
		rw.mu.Unlock()
		return true
	}

	rwW := &rwWaiter{w: newWaiter(), isWrite: isWrite}
	rwW.w.Prepare(hasDeadline, deadline, "RWLock.acquire")
	el := rw.queue.PushBack(rwW)
	rw.mu.Unlock()

	timedOut := rwW.w.Park()

	rw.mu.Lock()
	if !rwW.granted {
		// We timed out before being granted. If a grant raced with the
		// timeout, granted is already true and the lock is kept; granted
		// is only ever flipped under rw.mu so it is authoritative here.
		rw.queue.Remove(el)
		rw.mu.Unlock()
		return false
	}
	rw.mu.Unlock()
	_ = timedOut
	return true
}

// ReleaseReadLock releases one previously acquired shared lock.
func (rw *RWLock) ReleaseReadLock() {
	rw.mu.Lock()
	if rw.readers == 0 {
		rw.mu.Unlock()
		PanicMsg("RWLock.ReleaseReadLock: no shared lock is held")
		return
	}
	rw.readers--
	toRelease := rw.grantLocked()
	rw.mu.Unlock()
	for _, w := range toRelease {
		w.Release()
	}
}

// ReleaseWriteLock releases the previously acquired exclusive lock.
func (rw *RWLock) ReleaseWriteLock() {
	rw.mu.Lock()
	if !rw.writerOwner {
		rw.mu.Unlock()
		PanicMsg("RWLock.ReleaseWriteLock: no exclusive lock is held")
		return
	}
	rw.writerOwner = false
	toRelease := rw.grantLocked()
	rw.mu.Unlock()
	for _, w := range toRelease {
		w.Release()
	}
}

// grantLocked walks the FIFO queue from the front, granting every request
// that can now be satisfied, and stops at the first one that can't -- this
// is what makes the lock writer-starvation-free: a queued writer blocks all
// later readers from cutting in, instead of only the next waiter.
// Must be called with rw.mu held; returns the waiters to Release once
// unlocked.
func (rw *RWLock) grantLocked() []*waiter {
	var toRelease []*waiter
	for {
		front := rw.queue.Front()
		if front == nil {
			return toRelease
		}
		rwW := front.Value.(*rwWaiter)
		if rwW.isWrite {
			if rw.readers != 0 || rw.writerOwner {
				return toRelease
			}
			rw.writerOwner = true
			rwW.granted = true
			rw.queue.Remove(front)
			toRelease = append(toRelease, rwW.w)
			return toRelease
		}
		if rw.writerOwner {
			return toRelease
		}
		rw.readers++
		rwW.granted = true
		rw.queue.Remove(front)
		toRelease = append(toRelease, rwW.w)
	}
}

// RWLockReadLocker is a scoped helper that holds a shared lock for its
// lifetime. Go has no destructors, so callers must call Unlock explicitly
// (typically via defer). A nil *RWLockReadLocker, one built from a nil
// *RWLock, or one built from a timed-out acquisition, is passive: Unlock on
// it is a no-op, matching the
// "optional lock" pattern used where acquisition may legitimately fail.
type RWLockReadLocker struct {
	rw *RWLock
}

// NewRWLockReadLocker blocks until it acquires a shared lock on rw, then
// returns a locker that releases it on Unlock.
func NewRWLockReadLocker(rw *RWLock) *RWLockReadLocker {
	if rw == nil {
		return &RWLockReadLocker{}
	}
	rw.ReadLock()
	return &RWLockReadLocker{rw: rw}
}

// NewRWLockReadLockerTimeout attempts to acquire a shared lock on rw before
// absoluteTimeout. Unlike the plain ReadLockTimeout operation it returns
// boolean, this scoped-locker constructor reports expiry as a typed
// TimeoutError (spec §4.3/§7), distinguishing the locker-construction
// contract from the plain wait operations. On timeout the returned locker
// is passive and its Unlock is a no-op.
func NewRWLockReadLockerTimeout(rw *RWLock, absoluteTimeout time.Time) (*RWLockReadLocker, error) {
	if rw == nil {
		return &RWLockReadLocker{}, nil
	}
	if !rw.ReadLockTimeout(absoluteTimeout) {
		return &RWLockReadLocker{}, NewError(TimeoutErrorKind, "RWLockReadLocker: ReadLock not acquired before deadline")
	}
	return &RWLockReadLocker{rw: rw}, nil
}

// Unlock releases the shared lock, or does nothing if l is nil or passive.
func (l *RWLockReadLocker) Unlock() {
	if l == nil || l.rw == nil {
		return
	}
	l.rw.ReleaseReadLock()
	l.rw = nil
}

// RWLockWriteLocker is the exclusive-lock analogue of RWLockReadLocker.
type RWLockWriteLocker struct {
	rw *RWLock
}

// NewRWLockWriteLocker blocks until it acquires an exclusive lock on rw.
func NewRWLockWriteLocker(rw *RWLock) *RWLockWriteLocker {
	if rw == nil {
		return &RWLockWriteLocker{}
	}
	rw.WriteLock()
	return &RWLockWriteLocker{rw: rw}
}

// NewRWLockWriteLockerTimeout attempts to acquire an exclusive lock on rw
// before absoluteTimeout, mirroring NewRWLockReadLockerTimeout: expiry is
// reported as a typed TimeoutError rather than a bool.
func NewRWLockWriteLockerTimeout(rw *RWLock, absoluteTimeout time.Time) (*RWLockWriteLocker, error) {
	if rw == nil {
		return &RWLockWriteLocker{}, nil
	}
	if !rw.WriteLockTimeout(absoluteTimeout) {
		return &RWLockWriteLocker{}, NewError(TimeoutErrorKind, "RWLockWriteLocker: WriteLock not acquired before deadline")
	}
	return &RWLockWriteLocker{rw: rw}, nil
}

// Unlock releases the exclusive lock, or does nothing if l is nil or
// passive.
func (l *RWLockWriteLocker) Unlock() {
	if l == nil || l.rw == nil {
		return
	}
	l.rw.ReleaseWriteLock()
	l.rw = nil
}

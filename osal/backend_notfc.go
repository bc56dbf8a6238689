//go:build !tfc

package osal

import (
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// This file backs every OSAL primitive with the host's real clocks and
// real blocking. It is compiled into the default build configuration. The
// "tfc" build tag selects backend_tfc.go instead, which replaces every
// function here with one driven by the virtual clock in
// osal/internal/tfc.

const noDeadline = int64(-1)

func hostPID() int { return os.Getpid() }

func onThreadStarted() {}
func onThreadEnded()   {}

func sleepNs(ns uint64) { time.Sleep(time.Duration(ns)) }

// blockingWait blocks until ch is closed/sent-to, or deadlineNs (absolute,
// time.Now().UnixNano() scale) elapses if deadlineNs != noDeadline. It
// returns true if it returned because of the deadline.
func blockingWait(ch <-chan struct{}, deadlineNs int64) (timedOut bool) {
	if deadlineNs == noDeadline {
		<-ch
		return false
	}
	d := time.Duration(deadlineNs - time.Now().UnixNano())
	if d <= 0 {
		select {
		case <-ch:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ch:
		return false
	case <-timer.C:
		return true
	}
}

func getTime(id ClockID) time.Time {
	switch id {
	case Realtime, RealtimeCoarse, RealtimePrecise:
		return time.Now()
	default:
		return monoStart.Add(time.Duration(monotonicNowNs()))
	}
}

func getPrecisionNs(id ClockID) uint64 {
	// Host clocks report nominal precision; real hosts vary, but the
	// portable default communicates "do not assume sub-microsecond".
	return 1000
}

var monoStart = time.Now()

func monotonicNowNs() uint64 { return uint64(time.Since(monoStart)) }

// waiter is the blocking primitive shared by Mutex/ConditionVariable/
// RWLock/Semaphore to park a goroutine and release it either from another
// goroutine (Release) or from an expired deadline registered at Prepare
// time. On this (non-tfc) backend the deadline is a real host timer.
type waiter struct {
	mu       sync.Mutex
	ch       chan struct{}
	timer    *time.Timer
	released bool
	timedOut int32
}

func newWaiter() *waiter { return &waiter{ch: make(chan struct{}, 1)} }

// Prepare registers the waiter's deadline, if any, unless a concurrent
// Release already fired first (e.g. a ConditionVariable signal racing in
// after the waiter was enqueued but before the caller's own mutex unlock
// let Prepare run -- see condvar.go's waitImpl ordering). In that case the
// wait is already satisfied: no timer is armed, and w.timedOut must not be
// set, or a real signal would be misreported as a timeout.
func (w *waiter) Prepare(hasDeadline bool, deadline time.Time, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released || !hasDeadline {
		return
	}
	d := time.Until(deadline)
	if d <= 0 {
		atomic.StoreInt32(&w.timedOut, 1)
		w.signal()
		return
	}
	w.timer = time.AfterFunc(d, func() {
		atomic.StoreInt32(&w.timedOut, 1)
		w.signal()
	})
}

func (w *waiter) signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// Release wakes w from another goroutine; idempotent with a timeout firing
// concurrently. Safe to call before Prepare: Prepare then sees w.released
// and skips arming a timer altogether.
func (w *waiter) Release() {
	w.mu.Lock()
	w.released = true
	w.mu.Unlock()
	w.signal()
}

// Park blocks until Release is called or the deadline registered at Prepare
// fires, and reports whether it returned because of the deadline.
func (w *waiter) Park() (timedOut bool) {
	<-w.ch
	w.mu.Lock()
	timer := w.timer
	w.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
	return atomic.LoadInt32(&w.timedOut) != 0
}

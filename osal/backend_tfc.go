//go:build tfc

package osal

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gpcc-go/gpcc/osal/internal/tfc"
)

const noDeadline = int64(-1)

func init() {
	// TFC's dead-lock and reproducibility decisions bypass any
	// user-installed PanicHandler and always use the default one (spec
	// §4.8 "Failure mode").
	tfc.Get().SetPanicFunc(func(msg string) { defaultPanicHandler(msg) })
	// The goroutine executing package init is the process's initial
	// thread; it was never passed through Thread.Start, so it must be
	// registered explicitly (spec §3).
	tfc.Get().AddInitialThread()
}

func hostPID() int { return os.Getpid() }

func onThreadStarted() { tfc.Get().OnThreadStarted() }
func onThreadEnded()   { tfc.Get().OnThreadEnded() }

// sleepNs suspends the calling thread by registering an expiry entry at
// vTime+ns and blocking until TFC's clock advance releases it.
func sleepNs(ns uint64) {
	ch := make(chan struct{}, 1)
	release := func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	core := tfc.Get()
	deadline := core.GetEmulatedMonotonicTime() + int64(ns)
	w := core.EnterBlocked(true, deadline, release, "Thread.Sleep")
	<-ch
	core.ExitBlocked(w)
}

// blockingWait blocks the calling thread on ch, accounting for the block in
// TFC's liveThreads/blockedThreads tally so dead-lock detection stays
// accurate even for waits (like Thread.Join) that carry no timeout of their
// own.
func blockingWait(ch <-chan struct{}, deadlineNs int64) (timedOut bool) {
	if deadlineNs != noDeadline {
		PanicMsg("osal: blockingWait with a deadline is not supported under tfc; use a primitive's own timed wait")
	}
	core := tfc.Get()
	w := core.EnterBlocked(false, 0, nil, "blockingWait")
	<-ch
	core.ExitBlocked(w)
	return false
}

func getTime(id ClockID) time.Time {
	core := tfc.Get()
	switch id {
	case Realtime, RealtimeCoarse, RealtimePrecise:
		return time.Unix(0, core.GetEmulatedRealtime())
	default:
		return time.Unix(0, core.GetEmulatedMonotonicTime())
	}
}

func getPrecisionNs(id ClockID) uint64 { return 1 }

// waiter is the blocking primitive shared by Mutex/ConditionVariable/
// RWLock/Semaphore to park a goroutine and release it either from another
// goroutine (Release) or from TFC's clock advance (a deadline registered at
// Prepare time). Every Prepare/Park pair is reported to the TFC core so its
// liveThreads/blockedThreads/expiryQueue tally and dead-lock detection stay
// accurate, including for waits that carry no deadline of their own.
type waiter struct {
	mu       sync.Mutex
	ch       chan struct{}
	core     *tfc.Core
	tw       *tfc.Waiter
	released bool
	timedOut int32
}

func newWaiter() *waiter { return &waiter{ch: make(chan struct{}, 1), core: tfc.Get()} }

// Prepare registers the waiter with the TFC core, unless a concurrent
// Release has already fired (e.g. a ConditionVariable signal that raced in
// after the waiter was enqueued on the wait list but before the caller's
// own mutex unlock let Prepare run -- see condvar.go's waitImpl ordering).
// In that case the wait has already been satisfied and must never be
// charged against liveThreads/blockedThreads/expiryQueue at all: w.mu
// serialises against Release so exactly one of the two branches below sees
// w.released first and decides whether EnterBlocked happens.
func (w *waiter) Prepare(hasDeadline bool, deadline time.Time, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return
	}
	var wake func()
	var dl int64
	if hasDeadline {
		dl = deadline.UnixNano()
		wake = func() {
			atomic.StoreInt32(&w.timedOut, 1)
			w.signal()
		}
	}
	w.tw = w.core.EnterBlocked(hasDeadline, dl, wake, name)
}

func (w *waiter) signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// Release wakes w from another goroutine (a signal, a mutex unlock, a
// semaphore post), as opposed to a TFC-driven timeout. If it runs before
// Prepare has registered w with the TFC core, it only records that the
// waiter was already satisfied; Prepare then skips EnterBlocked entirely
// rather than reporting a block that will never actually happen.
func (w *waiter) Release() {
	w.mu.Lock()
	w.released = true
	tw := w.tw
	w.mu.Unlock()
	if tw != nil {
		w.core.MarkAboutToWake(tw.WaiterID())
	}
	w.signal()
}

// Park blocks until Release is called or the deadline registered at Prepare
// fires, and reports whether it returned because of the deadline.
func (w *waiter) Park() (timedOut bool) {
	<-w.ch
	w.mu.Lock()
	tw := w.tw
	w.mu.Unlock()
	if tw != nil {
		w.core.ExitBlocked(tw)
	}
	return atomic.LoadInt32(&w.timedOut) != 0
}

// Package tfc implements the Time-Flow-Control core described in spec §4.8:
// a single process-wide instance that advances a virtual clock only in
// response to the blocking decisions of the threads registered with it, and
// panics when every live thread is blocked with no pending timeout to
// rescue them.
package tfc

import (
	"fmt"
	"sync"
)

// PanicFunc aborts the process. TFC always uses the default (terminal)
// handler for its own dead-lock/fatal panics, bypassing any user-installed
// osal.PanicHandler, per spec §4.8 "Failure mode" -- the osal package wires
// this to its default handler rather than the (possibly overridden) current
// one.
type PanicFunc func(msg string)

// Core is the TFC singleton. It is lazily initialised on first use and
// intentionally never torn down: every Thread started through the OSAL
// outlives it only until process exit, and GPCC's documented teardown order
// is "TFCCore outlives every Thread" (spec §9).
type Core struct {
	mu sync.Mutex

	vTime               int64
	vTimeRealtimeOffset int64

	liveThreads    int
	blockedThreads int
	aboutToWake    map[uint64]struct{}

	expiry   *expiryQueue
	nextID   uint64

	Traps Traps

	panicFn PanicFunc
}

var (
	once     sync.Once
	instance *Core
)

// Get returns the process-wide TFCCore, creating it on first call.
func Get() *Core {
	once.Do(func() {
		instance = &Core{
			aboutToWake: make(map[uint64]struct{}),
			expiry:      newExpiryQueue(),
			panicFn: func(msg string) {
				panic("TFC PANIC: " + msg)
			},
		}
	})
	return instance
}

// SetPanicFunc installs the function TFC calls for dead-lock and other fatal
// conditions. Called once by osal's init to route into its own default
// (non-overridable) panic path.
func (c *Core) SetPanicFunc(f PanicFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panicFn = f
}

// OnThreadStarted registers a new live thread. Called by Thread.Start before
// the new goroutine begins running its entry function.
func (c *Core) OnThreadStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveThreads++
}

// OnThreadEnded unregisters a live thread. If every remaining live thread is
// now blocked and no timeout is pending, this panics with the canonical
// dead-lock message.
func (c *Core) OnThreadEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveThreads--
	c.checkDeadlockLocked()
}

// AddInitialThread registers the process's initial (non-OSAL-started)
// goroutine as live. Call this exactly once, before any other OSAL
// primitive blocks, so that the "all threads blocked" test has the right
// denominator (spec §3: "excludes host threads that exist outside the
// OSAL... the initial thread is registered explicitly").
func (c *Core) AddInitialThread() {
	c.OnThreadStarted()
}

// Waiter is an opaque handle to a registered blocking operation.
type Waiter struct {
	id         uint64
	hasDeadline bool
	deadline   int64
}

// EnterBlocked registers the calling thread as blocked, optionally with an
// absolute deadline (vTime nanoseconds) and a wake hook invoked (with Core's
// lock held) if the deadline fires during a clock advance. name is used only
// in trap messages. It performs the trap checks and the "all blocked"
// dead-lock/advance test described in spec §4.8.3.
func (c *Core) EnterBlocked(hasDeadline bool, deadline int64, wake func(), name string) *Waiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := &Waiter{hasDeadline: hasDeadline, deadline: deadline}
	w.id = c.nextID
	c.nextID++

	if hasDeadline {
		c.Traps.checkExpired(deadline, c.vTime, name)
		dup := c.expiry.HasDeadline(deadline)
		c.Traps.checkDuplicateDeadline(deadline, name, dup)
		c.expiry.Push(&expiryEntry{deadline: deadline, seq: w.id, id: w.id, name: name, wake: wake})
	}

	c.blockedThreads++
	c.maybeAdvanceOrDeadlockLocked()
	return w
}

// ExitBlocked unregisters a previously-registered waiter once its operation
// has actually resumed (whether via signal, timeout, or cancellation).
func (c *Core) ExitBlocked(w *Waiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.aboutToWake, w.id)
	c.blockedThreads--
	if w.hasDeadline {
		c.expiry.Remove(w.id) // no-op if it already fired and was popped
	}
}

// MarkAboutToWake is used by primitives (e.g. Mutex.Unlock, CV.Signal) that
// release a waiter directly, without going through the expiry queue. It
// records the transient "about-to-wake" state so a concurrent dead-lock
// check does not see a false "all blocked" window before the woken thread
// has resumed (spec glossary: "About-to-wake").
func (c *Core) MarkAboutToWake(waiterID uint64) {
	c.mu.Lock()
	c.aboutToWake[waiterID] = struct{}{}
	c.mu.Unlock()
}

// WaiterID exposes the opaque id of a Waiter, for primitives that need to
// pass it to MarkAboutToWake from outside this package.
func (w *Waiter) WaiterID() uint64 { return w.id }

// checkDeadlockLocked and maybeAdvanceOrDeadlockLocked implement spec
// §4.8.2/§4.8.3: both are reached only with c.mu held.
func (c *Core) checkDeadlockLocked() {
	if c.liveThreads > 0 && c.blockedThreads-len(c.aboutToWake) == c.liveThreads && c.expiry.Len() == 0 {
		c.panicDeadlockLocked()
	}
}

func (c *Core) maybeAdvanceOrDeadlockLocked() {
	if c.blockedThreads != c.liveThreads || len(c.aboutToWake) != 0 {
		return
	}
	newVTime, ok := c.expiry.Min()
	if !ok {
		c.panicDeadlockLocked()
		return
	}
	if newVTime > c.vTime {
		c.vTime = newVTime
	}
	// else: newVTime is an already-expired deadline (spec §4.2, entered with
	// absoluteTimeout <= vTime) that reached the front of the queue without
	// ever being the minimum relative to a higher c.vTime set by an earlier
	// advance; clamping here keeps vTime monotonic non-decreasing (testable
	// property #5) instead of letting it retreat to that stale deadline.
	due := c.expiry.PopDue(c.vTime)
	c.Traps.checkSimultaneousRelease(c.vTime, len(due))
	for _, e := range due {
		c.aboutToWake[e.id] = struct{}{}
		e.wake()
	}
}

// panicDeadlockLocked calls the panic function while still holding c.mu: if
// it panics (the default does, to unwind the calling goroutine), the
// deferred Unlock already present in every caller fires exactly once during
// unwind. If it instead terminates the process outright, lock state is moot.
func (c *Core) panicDeadlockLocked() {
	c.panicFn("Dead-Lock detected. All threads permanently blocked.")
}

// GetEmulatedMonotonicTime returns the current virtual time in nanoseconds.
func (c *Core) GetEmulatedMonotonicTime() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vTime
}

// GetEmulatedRealtime returns vTime + the configured realtime offset.
func (c *Core) GetEmulatedRealtime() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vTime + c.vTimeRealtimeOffset
}

// SetRealtimeOffset sets the offset applied by GetEmulatedRealtime. Intended
// for test setup (e.g. pinning emulated realtime to a fixed wall-clock
// instant at process start).
func (c *Core) SetRealtimeOffset(offsetNs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vTimeRealtimeOffset = offsetNs
}

// Stats is a debug snapshot of Core, used by the cli package's inspection
// command.
type Stats struct {
	VTime          int64
	LiveThreads    int
	BlockedThreads int
	AboutToWake    int
	PendingExpiry  int
}

func (c *Core) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		VTime:          c.vTime,
		LiveThreads:    c.liveThreads,
		BlockedThreads: c.blockedThreads,
		AboutToWake:    len(c.aboutToWake),
		PendingExpiry:  c.expiry.Len(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("vTime=%d live=%d blocked=%d aboutToWake=%d pendingExpiry=%d",
		s.VTime, s.LiveThreads, s.BlockedThreads, s.AboutToWake, s.PendingExpiry)
}

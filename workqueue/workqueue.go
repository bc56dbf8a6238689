// Package workqueue implements a deferred work-queue dispatcher running on
// its own managed thread, adapted from GPCC's SuspendableDWQwithThread: work
// packages (plain closures here, rather than a WorkPackage object) are
// enqueued from any thread and executed, one at a time and in FIFO order,
// by the queue's own thread. The thread can be suspended (queued work
// piles up but does not run) and resumed without being stopped and
// restarted.
package workqueue

import (
	"fmt"

	"github.com/gpcc-go/gpcc/osal"
)

type ctrlStat int

const (
	noThread ctrlStat = iota
	starting
	running
	suspended
	stopPending
)

// WorkQueue is a FIFO dispatcher of work packages, executed serially on a
// single dedicated osal.Thread.
type WorkQueue struct {
	apiMu  osal.Mutex // serializes Start/Stop/Suspend/Resume against each other
	mu     osal.Mutex // guards the fields below
	cv     osal.ConditionVariable
	stat   ctrlStat
	queue  []func()
	thread *osal.Thread
}

// New returns an idle, unstarted WorkQueue.
func New() *WorkQueue {
	return &WorkQueue{stat: noThread}
}

// Start launches the queue's thread. Work package execution begins
// immediately, including packages enqueued before Start. Suspend has no
// effect before Start; packages are held back only by a Suspend issued
// after Start.
func (wq *WorkQueue) Start(name string, policy osal.SchedPolicy, priority int, stackSize uint) error {
	wq.apiMu.Lock()
	defer wq.apiMu.Unlock()

	wq.mu.Lock()
	if wq.stat != noThread {
		wq.mu.Unlock()
		return fmt.Errorf("workqueue: already started")
	}
	wq.stat = starting
	wq.mu.Unlock()

	wq.thread = osal.NewThread(name)
	if err := wq.thread.Start(wq.threadEntry, policy, priority, stackSize); err != nil {
		wq.mu.Lock()
		wq.stat = noThread
		wq.mu.Unlock()
		return err
	}

	wq.mu.Lock()
	wq.stat = running
	wq.mu.Unlock()
	return nil
}

// Stop requests the queue's thread to finish its current work package and
// exit, then waits for it to terminate. Any remaining queued packages are
// discarded.
func (wq *WorkQueue) Stop() {
	wq.apiMu.Lock()
	defer wq.apiMu.Unlock()

	wq.mu.Lock()
	if wq.stat == noThread {
		wq.mu.Unlock()
		return
	}
	wq.stat = stopPending
	wq.cv.Broadcast()
	wq.mu.Unlock()

	wq.thread.Join()

	wq.mu.Lock()
	wq.stat = noThread
	wq.queue = nil
	wq.mu.Unlock()
}

// Suspend pauses work package execution: packages already queued, and any
// Enqueued while suspended, wait until Resume is called.
func (wq *WorkQueue) Suspend() {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	if wq.stat == running {
		wq.stat = suspended
	}
}

// Resume resumes work package execution after Suspend.
func (wq *WorkQueue) Resume() {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	if wq.stat == suspended {
		wq.stat = running
		wq.cv.Broadcast()
	}
}

// Enqueue appends fn to the queue. It is safe to call from any thread,
// including the queue's own.
func (wq *WorkQueue) Enqueue(fn func()) {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	wq.queue = append(wq.queue, fn)
	wq.cv.Broadcast()
}

func (wq *WorkQueue) threadEntry() interface{} {
	for {
		wq.mu.Lock()
		for wq.stat == running && len(wq.queue) == 0 {
			wq.cv.Wait(&wq.mu)
		}
		for wq.stat == suspended {
			wq.cv.Wait(&wq.mu)
		}
		if wq.stat == stopPending {
			wq.mu.Unlock()
			return nil
		}
		if len(wq.queue) == 0 {
			wq.mu.Unlock()
			continue
		}
		fn := wq.queue[0]
		wq.queue = wq.queue[1:]
		wq.mu.Unlock()

		fn()
	}
}

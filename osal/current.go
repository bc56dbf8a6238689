package osal

import "sync"

var (
	currentMu sync.RWMutex
	current   = make(map[uint64]*Thread)
)

// registerCurrent records that the calling goroutine is now running as t.
// Called once, from inside t.run(), before the entry function starts.
func registerCurrent(t *Thread) {
	currentMu.Lock()
	current[t.goroutineID] = t
	currentMu.Unlock()
}

// unregisterCurrent removes the calling goroutine's entry, called via defer
// from t.run() once the entry function has returned or unwound.
func unregisterCurrent() {
	id := goroutineID()
	currentMu.Lock()
	delete(current, id)
	currentMu.Unlock()
}

// CurrentThread returns the *Thread managing the calling goroutine, or nil if
// the calling goroutine was not started via Thread.Start (e.g. the process's
// initial goroutine, which the tfc build's core counts as a live thread
// without an associated *Thread -- see Core.AddInitialThread in
// osal/internal/tfc).
func CurrentThread() *Thread {
	id := goroutineID()
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current[id]
}

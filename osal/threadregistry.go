package osal

import "sync"

// ThreadRegistry is the process-wide, ordered list of live Thread pointers.
// Obtain the singleton with GetThreadRegistry. Non-lock methods require the
// caller to be holding the registry's own scoped lock (see Lock); this
// module does not machine-check that precondition, matching spec §4.7.
type ThreadRegistry struct {
	mu      sync.Mutex
	order   []*Thread
	byID    map[uint64]*Thread
}

var registry = &ThreadRegistry{byID: make(map[uint64]*Thread)}

// GetThreadRegistry returns the single process-wide ThreadRegistry.
func GetThreadRegistry() *ThreadRegistry { return registry }

// RegistryLock is the scoped lock object returned by ThreadRegistry.Lock.
// Iterators obtained from the registry are valid only while the lock they
// came from is held; Go has no destructors, so callers must defer Unlock.
type RegistryLock struct {
	r *ThreadRegistry
}

// Unlock releases the registry lock. Safe to call at most once per Lock.
func (l *RegistryLock) Unlock() { l.r.mu.Unlock() }

// Lock acquires the registry's internal mutex and returns a scoped lock
// object; all other ThreadRegistry methods require it to be held.
func (r *ThreadRegistry) Lock() *RegistryLock {
	r.mu.Lock()
	return &RegistryLock{r: r}
}

// GetNbOfThreads returns the number of registered threads. Requires the
// registry lock to be held.
func (r *ThreadRegistry) GetNbOfThreads() int { return len(r.order) }

// ThreadListBegin returns a snapshot slice of the registered threads, in
// registration order. Requires the registry lock to be held; the slice
// itself is a copy and remains safe to range over after Unlock, but reflects
// only the state at the time it was taken (mirrors the C++ iterator being
// valid only under the lock by giving Go callers no way to observe
// concurrent registry mutation through it).
func (r *ThreadRegistry) ThreadListBegin() []*Thread {
	out := make([]*Thread, len(r.order))
	copy(out, r.order)
	return out
}

func (r *ThreadRegistry) add(t *Thread) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, t)
	r.byID[t.id] = t
}

func (r *ThreadRegistry) remove(t *Thread) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, t.id)
	for i, cur := range r.order {
		if cur == t {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

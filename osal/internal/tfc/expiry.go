package tfc

import "container/heap"

// expiryEntry is one (absoluteDeadline, waiter) pair in the expiry queue.
type expiryEntry struct {
	deadline int64
	seq      uint64 // insertion order, breaks ties for heap stability only
	id       uint64
	name     string
	wake     func() // invoked with Core.mu held when this entry fires
	index    int
}

// expiryQueue is the ordered multiset described in spec §3/glossary: its
// minimum is the next virtual-time advance.
type expiryQueue struct {
	h expiryHeap
}

func newExpiryQueue() *expiryQueue {
	q := &expiryQueue{}
	heap.Init(&q.h)
	return q
}

func (q *expiryQueue) Len() int { return q.h.Len() }

func (q *expiryQueue) Push(e *expiryEntry) { heap.Push(&q.h, e) }

// Min returns the smallest deadline currently queued, and whether the queue
// is non-empty.
func (q *expiryQueue) Min() (int64, bool) {
	if q.h.Len() == 0 {
		return 0, false
	}
	return q.h[0].deadline, true
}

// HasDeadline reports whether any queued entry carries exactly deadline.
func (q *expiryQueue) HasDeadline(deadline int64) bool {
	for _, e := range q.h {
		if e.deadline == deadline {
			return true
		}
	}
	return false
}

// PopDue removes and returns every entry with deadline <= vTime, in deadline
// order.
func (q *expiryQueue) PopDue(vTime int64) []*expiryEntry {
	var due []*expiryEntry
	for q.h.Len() > 0 && q.h[0].deadline <= vTime {
		due = append(due, heap.Pop(&q.h).(*expiryEntry))
	}
	return due
}

// Remove cancels a still-pending entry by waiter id (used when a waiter is
// released by a direct signal/post rather than by a clock advance). A no-op
// if the id is not present (it already fired).
func (q *expiryQueue) Remove(id uint64) {
	for i, e := range q.h {
		if e.id == id {
			heap.Remove(&q.h, i)
			return
		}
	}
}

type expiryHeap []*expiryEntry

func (h expiryHeap) Len() int { return len(h) }
func (h expiryHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}
func (h expiryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *expiryHeap) Push(x interface{}) {
	e := x.(*expiryEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *expiryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

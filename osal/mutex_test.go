package osal

import (
	"sync"
	"testing"
	"time"
)

func TestMutexExclusion(t *testing.T) {
	var m Mutex
	var counter int
	var wg sync.WaitGroup
	const n = 50
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.Lock()
			counter++
			m.Unlock()
		}()
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}

func TestMutexTryLock(t *testing.T) {
	var m Mutex
	if !m.TryLock() {
		t.Fatal("expected TryLock to succeed on a free mutex")
	}
	if m.TryLock() {
		t.Fatal("expected TryLock to fail while already locked")
	}
	m.Unlock()
}

func TestMutexDoubleLockPanics(t *testing.T) {
	var m Mutex
	m.Lock()
	defer m.Unlock()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic from double-locking")
		}
	}()
	m.Lock()
}

func TestMutexUnlockWithoutLockPanics(t *testing.T) {
	var m Mutex
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic from unlocking a free mutex")
		}
	}()
	m.Unlock()
}

func TestMutexFIFOWaiters(t *testing.T) {
	var m Mutex
	m.Lock()

	const n = 5
	order := make(chan int, n)
	var started sync.WaitGroup
	started.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			started.Done()
			m.Lock()
			order <- i
			m.Unlock()
		}()
		time.Sleep(5 * time.Millisecond) // best-effort enqueue ordering
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	m.Unlock()

	for i := 0; i < n; i++ {
		select {
		case got := <-order:
			if got != i {
				t.Fatalf("waiter %d acquired the mutex in position %d, want FIFO order", got, i)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for all waiters to acquire the mutex")
		}
	}
}

package osal

import (
	"testing"
	"time"
)

func TestConditionVariableSignal(t *testing.T) {
	var m Mutex
	var cv ConditionVariable
	ready := false
	done := make(chan struct{})

	go func() {
		m.Lock()
		for !ready {
			cv.Wait(&m)
		}
		m.Unlock()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	m.Lock()
	ready = true
	cv.Signal()
	m.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Signal to wake the waiter")
	}
}

func TestConditionVariableBroadcast(t *testing.T) {
	var m Mutex
	var cv ConditionVariable
	ready := false
	const n = 5
	done := make(chan struct{}, n)

	for i := 0; i < n; i++ {
		go func() {
			m.Lock()
			for !ready {
				cv.Wait(&m)
			}
			m.Unlock()
			done <- struct{}{}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	m.Lock()
	ready = true
	cv.Broadcast()
	m.Unlock()

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for Broadcast to wake all waiters")
		}
	}
}

func TestConditionVariableTimeLimitedWaitTimesOut(t *testing.T) {
	var m Mutex
	var cv ConditionVariable

	m.Lock()
	timedOut := cv.TimeLimitedWait(&m, time.Now().Add(50*time.Millisecond))
	m.Unlock()

	if !timedOut {
		t.Fatal("expected TimeLimitedWait to report a timeout")
	}
	if !m.TryLock() {
		t.Fatal("expected the mutex to be relocked and then free after Unlock")
	}
}

func TestConditionVariableWaitRequiresTopOfStack(t *testing.T) {
	var m1, m2 Mutex
	var cv ConditionVariable

	m1.Lock()
	defer m1.Unlock()
	m2.Lock()
	defer m2.Unlock()

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when waiting on a mutex that is not the top of the stack")
		}
	}()
	cv.Wait(&m1)
}

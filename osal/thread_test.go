package osal

import (
	"testing"
	"time"
)

func TestThreadStartAndJoin(t *testing.T) {
	th := NewThread("test-thread")
	err := th.Start(func() interface{} { return 42 }, SchedOther, 0, 0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	v, err := th.Join()
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if v.(int) != 42 {
		t.Fatalf("exit value = %v, want 42", v)
	}
	if th.GetInfo().State != StateJoined {
		t.Fatalf("state = %v, want StateJoined", th.GetInfo().State)
	}
}

func TestThreadDoubleStartPanics(t *testing.T) {
	th := NewThread("double-start")
	if err := th.Start(func() interface{} { return nil }, SchedOther, 0, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer th.Join()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic from double-starting a thread")
		}
	}()
	th.Start(func() interface{} { return nil }, SchedOther, 0, 0)
}

func TestThreadJoinRejectsNeverStarted(t *testing.T) {
	th := NewThread("never-started")
	if _, err := th.Join(); err == nil {
		t.Fatal("expected an error joining a thread that was never started")
	}
}

func TestThreadCancellation(t *testing.T) {
	th := NewThread("cancellable")
	started := make(chan struct{})
	err := th.Start(func() interface{} {
		close(started)
		for {
			th.TestForCancellation()
			time.Sleep(time.Millisecond)
		}
	}, SchedOther, 0, 0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started
	if err := th.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := th.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
}

func TestThreadCancellationReleasesLocksBeforeJoinReturns(t *testing.T) {
	var m Mutex
	th := NewThread("cancel-holds-mutex")
	started := make(chan struct{})
	err := th.Start(func() interface{} {
		m.Lock()
		defer m.Unlock()
		close(started)
		for {
			th.TestForCancellation()
			time.Sleep(time.Millisecond)
		}
	}, SchedOther, 0, 0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started
	if err := th.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := th.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !m.TryLock() {
		t.Fatal("mutex still held after Join returned from a cancelled thread")
	}
	m.Unlock()
}

func TestThreadTerminateNowSetsExitValueAfterUnwind(t *testing.T) {
	var m Mutex
	th := NewThread("terminate-now")
	started := make(chan struct{})
	err := th.Start(func() interface{} {
		m.Lock()
		defer m.Unlock()
		close(started)
		th.TerminateNow(7)
		panic("unreachable: TerminateNow does not return")
	}, SchedOther, 0, 0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started
	v, err := th.Join()
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if v.(int) != 7 {
		t.Fatalf("exit value = %v, want 7", v)
	}
	if !m.TryLock() {
		t.Fatal("mutex still held after Join returned from a TerminateNow'd thread")
	}
	m.Unlock()
}

func TestThreadCancelSelfIsLogicError(t *testing.T) {
	th := NewThread("self-cancel")
	errCh := make(chan error, 1)
	err := th.Start(func() interface{} {
		errCh <- th.Cancel()
		return nil
	}, SchedOther, 0, 0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := <-errCh; err == nil {
		t.Fatal("expected an error cancelling self")
	}
	th.Join()
}

func TestValidateStartRejectsBadPriority(t *testing.T) {
	th := NewThread("bad-priority")
	if err := th.Start(func() interface{} { return nil }, SchedOther, 99, 0); err == nil {
		t.Fatal("expected an error for an out-of-range priority")
	}
}

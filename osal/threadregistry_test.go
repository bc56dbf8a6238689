package osal

import "testing"

func TestThreadRegistryTracksLiveThreads(t *testing.T) {
	reg := GetThreadRegistry()

	l := reg.Lock()
	before := reg.GetNbOfThreads()
	l.Unlock()

	th := NewThread("registry-test")
	done := make(chan struct{})
	th.Start(func() interface{} { <-done; return nil }, SchedOther, 0, 0)

	l = reg.Lock()
	during := reg.GetNbOfThreads()
	list := reg.ThreadListBegin()
	l.Unlock()

	if during != before+1 {
		t.Fatalf("expected one more registered thread while running, got before=%d during=%d", before, during)
	}
	found := false
	for _, rt := range list {
		if rt == th {
			found = true
		}
	}
	if !found {
		t.Fatal("started thread not present in ThreadListBegin snapshot")
	}

	close(done)
	th.Join()

	l = reg.Lock()
	after := reg.GetNbOfThreads()
	l.Unlock()
	if after != before {
		t.Fatalf("expected registry to shrink back to %d after Join, got %d", before, after)
	}
}

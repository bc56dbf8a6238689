package osal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphorePostWait(t *testing.T) {
	s := NewSemaphore(0)
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before a Post")
	case <-time.After(30 * time.Millisecond):
	}

	s.Post()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Post")
	}
}

func TestSemaphoreInitialCount(t *testing.T) {
	s := NewSemaphore(2)
	s.Wait()
	s.Wait() // should not block: initial count covers both

	blocked := make(chan struct{})
	go func() {
		s.Wait()
		close(blocked)
	}()
	select {
	case <-blocked:
		t.Fatal("expected the third Wait to block")
	case <-time.After(30 * time.Millisecond):
	}
	s.Post()
	select {
	case <-blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("third Wait never unblocked after Post")
	}
}

func TestNonBlockingSemaphoreImmediateWait(t *testing.T) {
	s := NewNonBlockingSemaphore(1)
	require.True(t, s.Wait(nil), "expected Wait to succeed immediately with count 1")
}

func TestNonBlockingSemaphoreQueuedCallback(t *testing.T) {
	s := NewNonBlockingSemaphore(0)
	var mu sync.Mutex
	fired := false
	ok := s.Wait(func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	})
	assert.False(t, ok, "expected Wait to queue rather than succeed immediately")
	s.Post()
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, fired, "expected the queued callback to fire on Post")
}

func TestNonBlockingSemaphoreCloseWithWaitersPanics(t *testing.T) {
	s := NewNonBlockingSemaphore(0)
	s.Wait(func() {})
	defer func() {
		assert.NotNil(t, recover(), "expected Close to panic with waiters still queued")
	}()
	s.Close()
}

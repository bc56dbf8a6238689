package memmgr

import "testing"

func TestAllocateRelease(t *testing.T) {
	h, err := New(16, 0, 2048)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d1, err := h.Allocate(100)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if d1.Size != 112 { // rounded up to a multiple of 16
		t.Fatalf("unexpected size %d", d1.Size)
	}
	if !h.AnyAllocations() {
		t.Fatal("expected AnyAllocations true")
	}
	h.Release(d1)
	if h.AnyAllocations() {
		t.Fatal("expected AnyAllocations false after release")
	}
	if h.FreeSpace() != 2048 {
		t.Fatalf("expected all space free after release, got %d", h.FreeSpace())
	}
}

func TestAllocateExhaustion(t *testing.T) {
	h, err := New(16, 0, 32)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := h.Allocate(32); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, err := h.Allocate(1); err == nil {
		t.Fatal("expected allocation failure once exhausted")
	}
}

func TestCoalescingOnRelease(t *testing.T) {
	h, err := New(16, 0, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d1, _ := h.Allocate(16)
	d2, _ := h.Allocate(16)
	h.Release(d1)
	h.Release(d2)
	if h.FreeSpace() != 64 {
		t.Fatalf("expected coalesced free space of 64, got %d", h.FreeSpace())
	}
	// A single allocation spanning the whole coalesced region should now
	// succeed, proving the blocks were merged rather than left fragmented.
	if _, err := h.Allocate(64); err != nil {
		t.Fatalf("expected coalesced allocation to succeed: %v", err)
	}
}

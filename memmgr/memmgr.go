// Package memmgr manages allocation of a virtual address range, adapted
// from GPCC's HeapManagerSPTS: it tracks which sub-ranges of
// [baseAddress, baseAddress+size) are free or allocated, without ever
// touching real memory at those addresses. It hands out non-overlapping
// address ranges from a fixed budget, and is thread-safe ("SPTS": single point, thread-safe) via an internal osal.Mutex.
package memmgr

import (
	"fmt"
	"sort"

	"github.com/gpcc-go/gpcc/osal"
)

// Descriptor identifies one allocated block.
type Descriptor struct {
	Address uint32
	Size    uint32
}

type freeBlock struct {
	address uint32
	size    uint32
}

// HeapManager allocates variable-size blocks, with each request rounded up
// to a multiple of the alignment, out of a bounded address
// range using a first-fit strategy over a sorted free list, coalescing
// adjacent free blocks on Release.
type HeapManager struct {
	mu        osal.Mutex
	alignment uint32
	base      uint32
	size      uint32
	free      []freeBlock // sorted by address
	allocated map[uint32]uint32
}

// New creates a HeapManager managing size bytes starting at baseAddress,
// handing out blocks aligned to alignment (which must be a power of two).
// baseAddress and size must already be aligned to alignment.
func New(alignment uint16, baseAddress, size uint32) (*HeapManager, error) {
	if alignment == 0 || alignment&(alignment-1) != 0 {
		return nil, fmt.Errorf("memmgr: alignment %d is not a power of two", alignment)
	}
	a := uint32(alignment)
	if baseAddress%a != 0 {
		return nil, fmt.Errorf("memmgr: base address %d is not aligned to %d", baseAddress, alignment)
	}
	if size == 0 || size%a != 0 {
		return nil, fmt.Errorf("memmgr: size %d is not a nonzero multiple of alignment %d", size, alignment)
	}
	if uint64(baseAddress)+uint64(size) > 1<<32 {
		return nil, fmt.Errorf("memmgr: baseAddress+size exceeds the uint32 address range")
	}
	return &HeapManager{
		alignment: a,
		base:      baseAddress,
		size:      size,
		free:      []freeBlock{{address: baseAddress, size: size}},
		allocated: make(map[uint32]uint32),
	}, nil
}

func alignUp(v, a uint32) uint32 {
	if v%a == 0 {
		return v
	}
	return v + (a - v%a)
}

// Allocate reserves a block of at least n bytes, rounded up to the
// manager's alignment, and returns its Descriptor. It returns an error if
// no sufficiently large free block exists.
func (h *HeapManager) Allocate(n uint32) (Descriptor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	want := alignUp(n, h.alignment)
	if want == 0 {
		return Descriptor{}, fmt.Errorf("memmgr: cannot allocate zero bytes")
	}
	for i, fb := range h.free {
		if fb.size < want {
			continue
		}
		d := Descriptor{Address: fb.address, Size: want}
		h.allocated[d.Address] = d.Size
		if fb.size == want {
			h.free = append(h.free[:i], h.free[i+1:]...)
		} else {
			h.free[i] = freeBlock{address: fb.address + want, size: fb.size - want}
		}
		return d, nil
	}
	return Descriptor{}, fmt.Errorf("memmgr: no free block of at least %d bytes available", want)
}

// Release returns a previously allocated Descriptor to the free list,
// coalescing it with adjacent free blocks. It is a programming error to
// release an address that was not returned by Allocate, or to release the
// same Descriptor twice.
func (h *HeapManager) Release(d Descriptor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	size, ok := h.allocated[d.Address]
	if !ok || size != d.Size {
		osal.PanicMsg("HeapManager.Release: descriptor was not allocated by this manager")
		return
	}
	delete(h.allocated, d.Address)

	idx := sort.Search(len(h.free), func(i int) bool { return h.free[i].address >= d.Address })
	h.free = append(h.free, freeBlock{})
	copy(h.free[idx+1:], h.free[idx:])
	h.free[idx] = freeBlock{address: d.Address, size: d.Size}

	// Coalesce with the following block, then the preceding one.
	if idx+1 < len(h.free) && h.free[idx].address+h.free[idx].size == h.free[idx+1].address {
		h.free[idx].size += h.free[idx+1].size
		h.free = append(h.free[:idx+1], h.free[idx+2:]...)
	}
	if idx > 0 && h.free[idx-1].address+h.free[idx-1].size == h.free[idx].address {
		h.free[idx-1].size += h.free[idx].size
		h.free = append(h.free[:idx], h.free[idx+1:]...)
	}
}

// AnyAllocations reports whether any block is currently allocated.
func (h *HeapManager) AnyAllocations() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.allocated) != 0
}

// FreeSpace returns the total number of free bytes, which may be
// fragmented across multiple non-contiguous blocks.
func (h *HeapManager) FreeSpace() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	var total uint32
	for _, fb := range h.free {
		total += fb.size
	}
	return total
}

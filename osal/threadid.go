package osal

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// threadIDGenerator hands out process-wide unique Thread ids cheaply by
// reusing one random 48-bit prefix for many ids and appending a counter,
// reseeding only when the counter wraps. A uint64 is plenty since Thread.id
// only needs to be unique within one process.
type threadIDGenerator struct {
	mu     sync.Mutex
	prefix uint64 // top 48 bits in use
	count  uint16
}

func (g *threadIDGenerator) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.count == 0 {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			PanicMsgErr("threadIDGenerator: failed to reseed", err)
		}
		g.prefix = binary.BigEndian.Uint64(buf[:]) &^ 0xffff
	}
	id := g.prefix | uint64(g.count)
	g.count++
	return id
}

var threadIDs threadIDGenerator

func nextThreadID() uint64 { return threadIDs.next() }

// Package hash provides checksum and identifier-generation primitives:
// fixed-size digests for data integrity and probably-unique identifiers,
// adapted from GPCC's hash/md5.cpp and the uniqueid package's counter-plus-
// random-prefix generator.
package hash

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// MD5Sum returns the MD5 digest of data, kept for compatibility with
// on-disk/on-wire formats that were defined against it.
func MD5Sum(data []byte) [md5.Size]byte { return md5.Sum(data) }

// SHA256Sum returns the SHA-256 digest of data, used for anything new that
// does not need to match an existing MD5-based format.
func SHA256Sum(data []byte) [sha256.Size]byte { return sha256.Sum256(data) }

// ID is a 16-byte probably-unique identifier.
type ID [16]byte

// IDGenerator produces IDs cheaply by mixing a blake2b-derived random
// prefix with a monotonically increasing counter, re-deriving the prefix
// only when the counter wraps. The zero value is ready to use.
type IDGenerator struct {
	mu    sync.Mutex
	seed  uint64
	id    ID
	count uint16
}

var defaultGen IDGenerator

// NewID returns a new probably-unique ID from the package-wide generator.
func NewID() (ID, error) { return defaultGen.NewID() }

// NewID returns a new probably-unique ID from g.
func (g *IDGenerator) NewID() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.count == 0 {
		var seedBytes [8]byte
		if _, err := rand.Read(seedBytes[:]); err != nil {
			return ID{}, err
		}
		g.seed = binary.BigEndian.Uint64(seedBytes[:])
		sum := blake2b.Sum256(seedBytes[:])
		copy(g.id[:14], sum[:14])
	}
	binary.BigEndian.PutUint16(g.id[14:], g.count)
	g.count++
	return g.id, nil
}

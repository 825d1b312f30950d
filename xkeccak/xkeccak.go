// Package xkeccak wraps the original (non-NIST) Keccak-256 padding used
// throughout CryptoNote and CARROT. SHA3-256 changed the padding suffix
// from Keccak's 0x01 to 0x06; every CryptoNote hash-to-scalar and
// hash-to-point call depends on the original variant, so this package
// pins golang.org/x/crypto/sha3's legacy constructor rather than the
// stdlib crypto/sha3 (NIST) one.
package xkeccak

import "golang.org/x/crypto/sha3"

// Size is the digest size in bytes of Keccak-256.
const Size = 32

// Sum256 returns the Keccak-256 digest of data.
func Sum256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Digest is a resumable Keccak-256 hash state, for callers that need to
// write in several chunks without collecting them into a single slice
// first (e.g. hashing a varint-prefixed transaction body alongside
// already-serialized fields).
type Digest struct {
	h interface {
		Write([]byte) (int, error)
		Sum([]byte) []byte
		Reset()
	}
}

// New returns a fresh Keccak-256 Digest.
func New() *Digest {
	return &Digest{h: sha3.NewLegacyKeccak256()}
}

// Write appends p to the digest input. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum256 finalizes the digest and returns the 32-byte output. The Digest
// remains usable for a new hash after Reset.
func (d *Digest) Sum256() [32]byte {
	var out [32]byte
	copy(out[:], d.h.Sum(nil))
	return out
}

// Reset clears the digest state for reuse.
func (d *Digest) Reset() {
	d.h.Reset()
}

// Package xtranscript implements the domain-separated Blake2b transcript
// framing CARROT uses for every derivation hash: a one-byte domain
// length, the domain string itself, then the concatenated data items,
// all hashed with Blake2b keyed by the chaining secret when one is
// supplied. A nil key gives plain unkeyed Blake2b over the same
// length-prefixed framing; account key derivation from the seed and the
// normal sending key use it.
package xtranscript

import (
	"golang.org/x/crypto/blake2b"

	"github.com/mxhess/salvium-core/xscalar"
)

// build assembles the domain-separated message: len(domain) || domain ||
// items[0] || items[1] || ...
func build(domain string, items ...[]byte) []byte {
	msg := make([]byte, 0, 1+len(domain)+estimateLen(items))
	msg = append(msg, byte(len(domain)))
	msg = append(msg, domain...)
	for _, it := range items {
		msg = append(msg, it...)
	}
	return msg
}

func estimateLen(items [][]byte) int {
	n := 0
	for _, it := range items {
		n += len(it)
	}
	return n
}

// hash runs keyed (or unkeyed, if key is nil) Blake2b over the
// domain-separated transcript, truncated/sized to outLen bytes.
func hash(outLen int, key []byte, domain string, items ...[]byte) []byte {
	h, err := blake2b.New(outLen, key)
	if err != nil {
		// Only non-nil for an out-of-range size or a key longer than
		// 64 bytes, both of which are programmer errors fixed by this
		// package's own domain functions below, never caller input.
		panic("xtranscript: " + err.Error())
	}
	h.Write(build(domain, items...))
	return h.Sum(nil)
}

// H32 derives a 32-byte output, the size used for one-time-pad streams
// (encrypted amount, anchor, payment id) and intermediate secrets like
// the sender-receiver secret.
func H32(key []byte, domain string, items ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], hash(32, key, domain, items...))
	return out
}

// H16 derives a 16-byte output, used for the Janus anchor.
func H16(key []byte, domain string, items ...[]byte) [16]byte {
	var out [16]byte
	copy(out[:], hash(16, key, domain, items...))
	return out
}

// H8 derives an 8-byte output, used for amount encryption masks.
func H8(key []byte, domain string, items ...[]byte) [8]byte {
	var out [8]byte
	copy(out[:], hash(8, key, domain, items...))
	return out
}

// H3 derives a 3-byte output, the CARROT view-tag size.
func H3(key []byte, domain string, items ...[]byte) [3]byte {
	var out [3]byte
	copy(out[:], hash(3, key, domain, items...))
	return out
}

// HScalar derives a scalar: a 64-byte Blake2b output reduced mod L,
// matching the wide-reduction convention every other scalar-from-hash
// call in this codebase uses.
func HScalar(key []byte, domain string, items ...[]byte) xscalar.Sc {
	wide := hash(64, key, domain, items...)
	return xscalar.Reduce64(wide)
}

package xkeccak

import (
	"encoding/hex"
	"testing"
)

// TestSum256Empty checks the well-known Keccak-256 (not SHA3-256) digest
// of the empty string, which is what distinguishes the legacy padding
// from the later NIST SHA3 finalization.
func TestSum256Empty(t *testing.T) {
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a47"
	got := Sum256(nil)
	if hex.EncodeToString(got[:]) != want {
		t.Errorf("Sum256(nil) = %x, want %s", got, want)
	}
}

func TestSum256Multi(t *testing.T) {
	whole := Sum256([]byte("hello, "), []byte("world"))
	concatenated := Sum256([]byte("hello, world"))
	if whole != concatenated {
		t.Error("Sum256 should hash variadic args as if concatenated")
	}
}

func TestDigestResumable(t *testing.T) {
	d := New()
	d.Write([]byte("abc"))
	first := d.Sum256()

	single := Sum256([]byte("abc"))
	if first != single {
		t.Errorf("Digest.Sum256() = %x, want %x", first, single)
	}

	d.Reset()
	d.Write([]byte("abc"))
	second := d.Sum256()
	if first != second {
		t.Error("Digest should produce the same hash after Reset and rewrite")
	}
}

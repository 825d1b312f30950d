// Package xscalar implements arithmetic mod L, the prime order of the
// Ed25519 basepoint's subgroup. Like xfield, it is built on math/big for
// reviewability over raw speed, which this codebase's signature and
// range-proof packages never need on the hot path that matters (RandomX
// hashing, not wallet-side scalar math).
package xscalar

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"

	"github.com/mxhess/salvium-core/errs"
)

// Size is the canonical encoding length of a scalar, in bytes.
const Size = 32

// L is the order of the Ed25519 basepoint subgroup,
// 2^252 + 27742317777372353535851937790883648493.
var L = func() *big.Int {
	l, ok := new(big.Int).SetString("27742317777372353535851937790883648493", 10)
	if !ok {
		panic("xscalar: failed to parse L's low term")
	}
	base := new(big.Int).Lsh(big.NewInt(1), 252)
	return base.Add(base, l)
}()

// Sc is a scalar mod L, always held in canonical [0, L) form.
type Sc struct {
	n *big.Int
}

// Zero returns the additive identity.
func Zero() Sc { return Sc{n: new(big.Int)} }

// One returns the multiplicative identity.
func One() Sc { return Sc{n: big.NewInt(1)} }

// FromUint64 lifts a small integer into the scalar field.
func FromUint64(v uint64) Sc {
	return Sc{n: new(big.Int).SetUint64(v)}
}

// Reduce32 implements sc_reduce32: interpret 32 little-endian bytes as
// an arbitrary (possibly non-canonical) integer and reduce mod L. This
// never fails; it is how raw hash output becomes a scalar.
func Reduce32(b []byte) Sc {
	return Sc{n: new(big.Int).Mod(new(big.Int).SetBytes(reverseCopy(b)), L)}
}

// Reduce64 implements sc_reduce: the wide-reduction variant used after a
// scalar multiply produces a 64-byte intermediate.
func Reduce64(b []byte) Sc {
	return Sc{n: new(big.Int).Mod(new(big.Int).SetBytes(reverseCopy(b)), L)}
}

func reverseCopy(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// FromCanonicalBytes decodes 32 little-endian bytes, requiring the value
// to already be < L (errs.ErrNonCanonical otherwise). Used when
// verifying a signature's scalar components, where a non-canonical
// value must be rejected rather than silently reduced.
func FromCanonicalBytes(b []byte) (Sc, error) {
	if len(b) != Size {
		return Sc{}, &errs.InvalidLengthError{What: "scalar", Expected: Size, Actual: len(b)}
	}
	n := new(big.Int).SetBytes(reverseCopy(b))
	if n.Cmp(L) >= 0 {
		return Sc{}, errs.ErrNonCanonical
	}
	return Sc{n: n}, nil
}

// Bytes encodes the scalar as little-endian 32 bytes.
func (a Sc) Bytes() [Size]byte {
	be := a.n.Bytes()
	var out [Size]byte
	n := len(be)
	if n > Size {
		n = Size
	}
	for i := 0; i < n; i++ {
		out[i] = be[n-1-i]
	}
	return out
}

// Random draws a uniformly random scalar using crypto/rand, by
// generating 64 bytes of randomness and wide-reducing mod L (the same
// bias-avoidance technique RFC 8032 uses for nonce generation).
func Random() (Sc, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Sc{}, err
	}
	return Reduce64(buf[:]), nil
}

// Add returns a + b mod L.
func (a Sc) Add(b Sc) Sc {
	r := new(big.Int).Add(a.n, b.n)
	r.Mod(r, L)
	return Sc{n: r}
}

// Sub returns a - b mod L.
func (a Sc) Sub(b Sc) Sc {
	r := new(big.Int).Sub(a.n, b.n)
	r.Mod(r, L)
	return Sc{n: r}
}

// Mul returns a * b mod L.
func (a Sc) Mul(b Sc) Sc {
	r := new(big.Int).Mul(a.n, b.n)
	r.Mod(r, L)
	return Sc{n: r}
}

// MulAdd returns a*b + c mod L, the shape CLSAG's challenge-response
// step and Bulletproofs+' inner-product folding both need repeatedly.
func (a Sc) MulAdd(b, c Sc) Sc {
	return a.Mul(b).Add(c)
}

// Neg returns -a mod L.
func (a Sc) Neg() Sc {
	r := new(big.Int).Neg(a.n)
	r.Mod(r, L)
	return Sc{n: r}
}

// Invert returns a^-1 mod L via Fermat's little theorem. Invert(0)
// returns 0 by convention; callers check IsZero first if the
// distinction matters.
func (a Sc) Invert() Sc {
	if a.IsZero() {
		return Zero()
	}
	exp := new(big.Int).Sub(L, big.NewInt(2))
	r := new(big.Int).Exp(a.n, exp, L)
	return Sc{n: r}
}

// IsZero reports whether a is the additive identity.
func (a Sc) IsZero() bool {
	return a.n.Sign() == 0
}

// Equal reports whether a and b are the same scalar, comparing through
// their canonical byte encodings (see xfield.Fe.Equal for the same
// not-fully-constant-time caveat).
func (a Sc) Equal(b Sc) bool {
	ab := a.Bytes()
	bb := b.Bytes()
	return subtle.ConstantTimeCompare(ab[:], bb[:]) == 1
}

// Big returns a copy of the scalar's canonical big.Int representative.
func (a Sc) Big() *big.Int {
	return new(big.Int).Set(a.n)
}

// Package xfield implements arithmetic mod p = 2^255 - 19, the base
// field of Curve25519/Ed25519.
//
// Elements are represented with math/big rather than a fixed-radix limb
// scheme: the pack's other discrete-log code (e.g. the Shamir secret
// sharing GF(2^8) tables in the retrieval pack, and the zerocash-style
// transaction code) favors big.Int-based modular arithmetic over
// hand-rolled limb math, trading raw speed for arithmetic that is
// trivially reviewable against the field definition. Every operation
// reduces its result into [0, p) so a Fe's internal big.Int is always
// its canonical representative.
package xfield

import (
	"crypto/subtle"
	"math/big"

	"github.com/mxhess/salvium-core/errs"
)

// Size is the canonical encoding length of a field element, in bytes.
const Size = 32

// P is the field modulus 2^255 - 19.
var P = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	return p.Sub(p, big.NewInt(19))
}()

// Fe is a field element mod P, always held in canonical [0, P) form.
type Fe struct {
	n *big.Int
}

// Zero returns the additive identity.
func Zero() Fe { return Fe{n: new(big.Int)} }

// One returns the multiplicative identity.
func One() Fe { return Fe{n: big.NewInt(1)} }

// FromBig reduces an arbitrary big.Int into a canonical Fe.
func FromBig(v *big.Int) Fe {
	n := new(big.Int).Mod(v, P)
	return Fe{n: n}
}

// FromUint64 lifts a small integer into the field.
func FromUint64(v uint64) Fe {
	return Fe{n: new(big.Int).SetUint64(v)}
}

// FromBytes decodes a little-endian 32-byte canonical encoding. The top
// bit is reserved (historically used by Ed25519 point compression for
// the sign of x) and is masked off before interpreting the value; the
// remaining 255 bits must already be < P, or errs.ErrNonCanonical is
// returned.
func FromBytes(b []byte) (Fe, error) {
	if len(b) != Size {
		return Fe{}, &errs.InvalidLengthError{What: "field element", Expected: Size, Actual: len(b)}
	}
	tmp := make([]byte, Size)
	copy(tmp, b)
	tmp[31] &= 0x7f

	be := reverse(tmp)
	n := new(big.Int).SetBytes(be)
	if n.Cmp(P) >= 0 {
		return Fe{}, errs.ErrNonCanonical
	}
	return Fe{n: n}, nil
}

// Bytes encodes the element as little-endian 32 bytes, top bit clear.
func (a Fe) Bytes() [Size]byte {
	be := a.n.Bytes()
	le := reverse(be)
	var out [Size]byte
	copy(out[:], le)
	return out
}

func reverse(b []byte) []byte {
	out := make([]byte, Size)
	n := len(b)
	if n > Size {
		n = Size
	}
	for i := 0; i < n; i++ {
		out[i] = b[n-1-i]
	}
	return out
}

// Add returns a + b mod P.
func (a Fe) Add(b Fe) Fe {
	r := new(big.Int).Add(a.n, b.n)
	r.Mod(r, P)
	return Fe{n: r}
}

// Sub returns a - b mod P.
func (a Fe) Sub(b Fe) Fe {
	r := new(big.Int).Sub(a.n, b.n)
	r.Mod(r, P)
	return Fe{n: r}
}

// Mul returns a * b mod P.
func (a Fe) Mul(b Fe) Fe {
	r := new(big.Int).Mul(a.n, b.n)
	r.Mod(r, P)
	return Fe{n: r}
}

// Neg returns -a mod P.
func (a Fe) Neg() Fe {
	r := new(big.Int).Neg(a.n)
	r.Mod(r, P)
	return Fe{n: r}
}

// Square returns a^2 mod P.
func (a Fe) Square() Fe {
	return a.Mul(a)
}

// Invert returns a^-1 mod P via Fermat's little theorem (a^(P-2)). The
// zero element has no inverse and Invert(0) returns 0, matching the
// convention used by the reference field arithmetic (callers that care
// about the distinction check IsZero first).
func (a Fe) Invert() Fe {
	if a.IsZero() {
		return Zero()
	}
	exp := new(big.Int).Sub(P, big.NewInt(2))
	r := new(big.Int).Exp(a.n, exp, P)
	return Fe{n: r}
}

// Pow returns a^e mod P for a non-negative exponent e.
func (a Fe) Pow(e *big.Int) Fe {
	r := new(big.Int).Exp(a.n, e, P)
	return Fe{n: r}
}

// sqrtExp = (P+3)/8, the exponent RFC 8032's candidate square root uses
// since P ≡ 5 (mod 8).
var sqrtExp = func() *big.Int {
	e := new(big.Int).Add(P, big.NewInt(3))
	return e.Rsh(e, 3)
}()

// sqrtM1 = sqrt(-1) mod P, used to correct the candidate root when
// P ≡ 5 (mod 8) and the first candidate squares to -a instead of a.
var sqrtM1 = func() Fe {
	two := FromUint64(2)
	exp := new(big.Int).Sub(P, big.NewInt(1))
	exp.Rsh(exp, 2)
	return two.Pow(exp)
}()

// Sqrt returns (root, true) if a is a quadratic residue mod P, following
// the standard P ≡ 5 (mod 8) square-root algorithm: a candidate
// `a^((P+3)/8)` either is the root, or becomes the root after
// multiplying by sqrt(-1).
func (a Fe) Sqrt() (Fe, bool) {
	if a.IsZero() {
		return Zero(), true
	}
	candidate := a.Pow(sqrtExp)
	if candidate.Square().Equal(a) {
		return candidate, true
	}
	adjusted := candidate.Mul(sqrtM1)
	if adjusted.Square().Equal(a) {
		return adjusted, true
	}
	return Fe{}, false
}

// IsZero reports whether a is the additive identity.
func (a Fe) IsZero() bool {
	return a.n.Sign() == 0
}

// IsNegative reports the "sign" of a as used by Ed25519 point
// compression: the parity of its canonical representative.
func (a Fe) IsNegative() bool {
	return a.n.Bit(0) == 1
}

// Equal reports whether a and b are the same field element. Comparison
// goes through subtle.ConstantTimeCompare on the canonical encodings,
// matching the pack-wide idiom for comparing secret-derived byte
// strings, though the underlying big.Int arithmetic is not itself
// constant-time.
func (a Fe) Equal(b Fe) bool {
	ab := a.Bytes()
	bb := b.Bytes()
	return subtle.ConstantTimeCompare(ab[:], bb[:]) == 1
}

// CondNeg returns a or -a depending on cond.
func (a Fe) CondNeg(cond bool) Fe {
	if cond {
		return a.Neg()
	}
	return a
}

// Big returns a copy of the element's canonical big.Int representative.
func (a Fe) Big() *big.Int {
	return new(big.Int).Set(a.n)
}

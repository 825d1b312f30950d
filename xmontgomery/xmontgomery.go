// Package xmontgomery implements the Curve25519 Montgomery ladder used
// by CARROT's X25519 ECDH step, including Salvium's non-standard bit
// clamping (only the top bit is cleared; the standard low-bit clearing
// and bit-254 forcing from RFC 7748 are NOT applied). This departure is
// required for on-chain compatibility with Salvium's CARROT
// implementation; see the clamping decision recorded in DESIGN.md.
package xmontgomery

import (
	"math/big"

	"github.com/mxhess/salvium-core/xfield"
	"github.com/mxhess/salvium-core/xscalar"
)

// Size is the encoded length of a Montgomery u-coordinate or a scalar,
// in bytes.
const Size = 32

const montgomeryA24 = 121665 // (486662 - 2) / 4, the ladder's A24 constant.

// clampSalvium applies Salvium's CARROT clamping: clear bit 255 only.
func clampSalvium(b *[32]byte) {
	b[31] &= 0x7f
}

// clampStandard applies RFC 7748's clamping (bits 0-2 cleared, bit 254
// set, bit 255 cleared). Kept unexported: it exists only so
// interoperability tests can confirm this package's ladder matches the
// standard X25519 test vectors when given standard clamping, not as an
// alternate production code path — CARROT always uses clampSalvium.
func clampStandard(b *[32]byte) {
	b[0] &= 248
	b[31] &= 127
	b[31] |= 64
}

// ladder runs the Montgomery ladder: given scalar bytes (already
// clamped) and a u-coordinate, returns the resulting u-coordinate of
// scalar*point.
func ladder(scalar [32]byte, u xfield.Fe) xfield.Fe {
	x1 := u
	x2, z2 := xfield.One(), xfield.Zero()
	x3, z3 := u, xfield.One()
	swap := 0

	a24 := xfield.FromUint64(montgomeryA24)

	for pos := 254; pos >= 0; pos-- {
		byteIdx := pos / 8
		bitIdx := uint(pos % 8)
		bit := int((scalar[byteIdx] >> bitIdx) & 1)

		swap ^= bit
		x2, x3 = condSwap(swap, x2, x3)
		z2, z3 = condSwap(swap, z2, z3)
		swap = bit

		a := x2.Add(z2)
		aa := a.Square()
		b := x2.Sub(z2)
		bb := b.Square()
		e := aa.Sub(bb)
		c := x3.Add(z3)
		dd := x3.Sub(z3)
		da := dd.Mul(a)
		cb := c.Mul(b)

		x3 = da.Add(cb).Square()
		z3 = x1.Mul(da.Sub(cb).Square())
		x2 = aa.Mul(bb)
		z2 = e.Mul(bb.Add(a24.Mul(e)))
	}

	x2, x3 = condSwap(swap, x2, x3)
	z2, z3 = condSwap(swap, z2, z3)

	return x2.Mul(z2.Invert())
}

func condSwap(swap int, a, b xfield.Fe) (xfield.Fe, xfield.Fe) {
	if swap == 0 {
		return a, b
	}
	return b, a
}

// toLEBytes renders a scalar into little-endian bytes suitable for
// the ladder, independent of xscalar.Sc's own canonical-mod-L
// encoding: X25519 scalars are clamped raw bytes, not reduced mod the
// Ed25519 group order.
func toLEBytes(b [32]byte) [32]byte {
	return b
}

// ScalarMultSalvium computes scalar*u on the Montgomery curve using
// Salvium's non-standard clamping (bit 255 cleared only). scalarBytes
// and uBytes are little-endian 32-byte encodings.
func ScalarMultSalvium(scalarBytes, uBytes [32]byte) [32]byte {
	u := decodeU(uBytes)
	s := toLEBytes(scalarBytes)
	clampSalvium(&s)
	result := ladder(s, u)
	return result.Bytes()
}

// ScalarMultStandard computes scalar*u using RFC 7748 clamping, kept
// for interoperability testing against standard X25519 vectors only.
func ScalarMultStandard(scalarBytes, uBytes [32]byte) [32]byte {
	u := decodeU(uBytes)
	s := toLEBytes(scalarBytes)
	clampStandard(&s)
	result := ladder(s, u)
	return result.Bytes()
}

// decodeU interprets a little-endian 32-byte u-coordinate as an
// integer mod 2^255 (per RFC 7748's decodeUCoordinate, which masks only
// the top bit) and reduces it mod p for field arithmetic. Unlike
// xfield.FromBytes this never rejects a non-canonical encoding: X25519
// inputs in [p, 2^255) are valid per the X25519 specification and must
// be accepted, not treated as an error.
func decodeU(b [32]byte) xfield.Fe {
	b[31] &= 0x7f
	le := make([]byte, 32)
	for i, v := range b {
		le[31-i] = v
	}
	n := new(big.Int).SetBytes(le)
	return xfield.FromBig(n)
}

// BasePoint is the standard Curve25519 base u-coordinate, u = 9.
var BasePoint = xfield.FromUint64(9).Bytes()

// ConvertEdwardsY converts an Ed25519 affine y-coordinate to its
// birationally-equivalent Montgomery u-coordinate via
// u = (1+y) / (1-y) mod p, the map CARROT's subaddress output
// derivation uses to move a spend public key onto the X25519 curve.
func ConvertEdwardsY(y xfield.Fe) xfield.Fe {
	one := xfield.One()
	num := one.Add(y)
	den := one.Sub(y)
	return num.Mul(den.Invert())
}

// ScalarFromSc renders an xscalar.Sc as raw little-endian bytes for use
// as a Montgomery-ladder exponent. Unlike xscalar's own canonical
// encoding this is not reduced again: Sc is already < L < 2^253, safely
// within the ladder's 255-bit scalar range.
func ScalarFromSc(s xscalar.Sc) [32]byte {
	return s.Bytes()
}

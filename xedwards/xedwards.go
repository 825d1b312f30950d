// Package xedwards implements Ed25519 group operations in extended
// projective coordinates (X, Y, Z, T) with x = X/Z, y = Y/Z, xy = T/Z,
// using the unified addition/doubling laws from Hisil-Wong-Carter-Dawson
// for twisted Edwards curves with a = -1. Scalar multiplication is plain
// double-and-add rather than a windowed/precomputed table: this package
// favors reviewability against the field-arithmetic layer it sits on
// (xfield, itself chosen for the same reason) over raw throughput, which
// matters for RandomX's VM but not for wallet-side point arithmetic.
package xedwards

import (
	"math/big"

	"github.com/mxhess/salvium-core/errs"
	"github.com/mxhess/salvium-core/xfield"
	"github.com/mxhess/salvium-core/xkeccak"
	"github.com/mxhess/salvium-core/xscalar"
)

// Point is an Ed25519 curve point in extended coordinates.
type Point struct {
	X, Y, Z, T xfield.Fe
}

// d is the twisted Edwards curve parameter, -121665/121666 mod p.
var d = func() xfield.Fe {
	num := xfield.FromUint64(121665).Neg()
	den := xfield.FromUint64(121666).Invert()
	return num.Mul(den)
}()

var d2 = d.Add(d)

// Identity returns the neutral element (0, 1).
func Identity() Point {
	return Point{X: xfield.Zero(), Y: xfield.One(), Z: xfield.One(), T: xfield.Zero()}
}

// fromAffine lifts an affine (x, y) pair already known to be on the
// curve into extended coordinates.
func fromAffine(x, y xfield.Fe) Point {
	return Point{X: x, Y: y, Z: xfield.One(), T: x.Mul(y)}
}

// Base is the standard Ed25519 basepoint, derived at init time from its
// y-coordinate (4/5 mod p, per the curve specification) and the curve
// equation rather than a copied decimal literal, so the constant is
// re-derivable from the field layer instead of trusted verbatim.
var Base = func() Point {
	y := xfield.FromUint64(4).Mul(xfield.FromUint64(5).Invert())
	x, ok := recoverX(y, false)
	if !ok {
		panic("xedwards: failed to derive basepoint x-coordinate")
	}
	return fromAffine(x, y)
}()

// recoverX solves the twisted Edwards curve equation
// x^2 = (y^2 - 1) / (d*y^2 + 1) for x, returning the root whose sign
// (low bit of its canonical encoding) matches signBit.
func recoverX(y xfield.Fe, signBit bool) (xfield.Fe, bool) {
	y2 := y.Square()
	num := y2.Sub(xfield.One())
	den := d.Mul(y2).Add(xfield.One())
	x2 := num.Mul(den.Invert())
	x, ok := x2.Sqrt()
	if !ok {
		return xfield.Fe{}, false
	}
	if x.IsNegative() != signBit {
		x = x.Neg()
	}
	return x, true
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	a := p.Y.Sub(p.X).Mul(q.Y.Sub(q.X))
	b := p.Y.Add(p.X).Mul(q.Y.Add(q.X))
	c := p.T.Mul(d2).Mul(q.T)
	dd := p.Z.Mul(xfield.FromUint64(2)).Mul(q.Z)
	e := b.Sub(a)
	f := dd.Sub(c)
	g := dd.Add(c)
	h := b.Add(a)

	return Point{
		X: e.Mul(f),
		Y: g.Mul(h),
		Z: f.Mul(g),
		T: e.Mul(h),
	}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{X: p.X.Neg(), Y: p.Y, Z: p.Z, T: p.T.Neg()}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return p.Add(q.Neg())
}

// Double returns p + p, using the dedicated doubling formula (cheaper
// than a generic addition when both operands are the same point).
func (p Point) Double() Point {
	a := p.X.Square()
	b := p.Y.Square()
	c := p.Z.Square().Add(p.Z.Square())
	dd := a.Neg() // curve parameter a = -1
	xPlusY := p.X.Add(p.Y)
	e := xPlusY.Square().Sub(a).Sub(b)
	g := dd.Add(b)
	f := g.Sub(c)
	h := dd.Sub(b)

	return Point{
		X: e.Mul(f),
		Y: g.Mul(h),
		Z: f.Mul(g),
		T: e.Mul(h),
	}
}

// ScalarMult returns s*p via double-and-add over the scalar's bits,
// most significant first.
func (p Point) ScalarMult(s xscalar.Sc) Point {
	bits := s.Big().Bytes() // big-endian
	acc := Identity()
	for _, b := range bits {
		for bit := 7; bit >= 0; bit-- {
			acc = acc.Double()
			if (b>>uint(bit))&1 == 1 {
				acc = acc.Add(p)
			}
		}
	}
	return acc
}

// ScalarMultBase returns s*Base.
func ScalarMultBase(s xscalar.Sc) Point {
	return Base.ScalarMult(s)
}

// DoubleScalarMultBase returns a*p + b*Base.
func DoubleScalarMultBase(a xscalar.Sc, p Point, b xscalar.Sc) Point {
	return p.ScalarMult(a).Add(ScalarMultBase(b))
}

// affine returns the point's (x, y) affine coordinates.
func (p Point) affine() (x, y xfield.Fe) {
	zInv := p.Z.Invert()
	return p.X.Mul(zInv), p.Y.Mul(zInv)
}

// AffineY returns the point's affine y-coordinate, the input CARROT's
// Edwards-to-Montgomery conversion (xmontgomery.ConvertEdwardsY) needs
// to turn an Ed25519 public key into an X25519 Diffie-Hellman input.
func (p Point) AffineY() xfield.Fe {
	_, y := p.affine()
	return y
}

// Compress encodes the point as 32 bytes: little-endian y, with the
// high bit of the last byte set to the sign (parity) of x.
func (p Point) Compress() [32]byte {
	x, y := p.affine()
	enc := y.Bytes()
	if x.IsNegative() {
		enc[31] |= 0x80
	} else {
		enc[31] &= 0x7f
	}
	return enc
}

// Decompress parses a 32-byte compressed point, reconstructing x from y
// and the curve equation and validating that the result is on the
// curve. It does not check subgroup membership, and this package has no
// small-order check.
func Decompress(b []byte) (Point, error) {
	if len(b) != 32 {
		return Point{}, &errs.InvalidLengthError{What: "compressed point", Expected: 32, Actual: len(b)}
	}
	signBit := b[31]&0x80 != 0
	yBytes := make([]byte, 32)
	copy(yBytes, b)
	yBytes[31] &= 0x7f

	y, err := xfield.FromBytes(yBytes)
	if err != nil {
		return Point{}, errs.ErrDecompressionFailed
	}
	x, ok := recoverX(y, signBit)
	if !ok {
		return Point{}, errs.ErrDecompressionFailed
	}
	return fromAffine(x, y), nil
}

// Equal reports whether p and q represent the same curve point,
// comparing in affine coordinates (any two projective representations
// of the same point compare equal).
func (p Point) Equal(q Point) bool {
	return p.X.Mul(q.Z).Equal(q.X.Mul(p.Z)) && p.Y.Mul(q.Z).Equal(q.Y.Mul(p.Z))
}

// IsIdentity reports whether p is the neutral element.
func (p Point) IsIdentity() bool {
	return p.Equal(Identity())
}

// montgomeryA is the Curve25519 Montgomery-form coefficient A = 486662.
var montgomeryA = xfield.FromUint64(486662)

// nonResidue is a fixed non-square mod p (2 is non-square mod
// 2^255-19), the "u" constant Elligator2 multiplies candidate inputs
// by.
var nonResidue = xfield.FromUint64(2)

// edwardsScale is sqrt(-(A+2)) mod p, the constant the birational map
// between the Montgomery and (twisted) Edwards models uses to convert
// the Montgomery u-coordinate into an Edwards X-coordinate. Derived via
// Sqrt rather than copied as a literal, for the same re-derivability
// reason as the basepoint above.
var edwardsScale = func() xfield.Fe {
	target := montgomeryA.Add(xfield.FromUint64(2)).Neg()
	root, ok := target.Sqrt()
	if !ok {
		panic("xedwards: -(A+2) is not a square mod p")
	}
	return root
}()

// HashToPoint maps arbitrary data to a curve point, the H_p function
// CryptoNote key images and CARROT commitment generators both need.
// It follows the Elligator2 construction on the birationally-equivalent
// Montgomery curve (Curve25519): every field element maps to a valid
// curve point with no rejection sampling, which is what the informal
// "square-root-based Elligator" description in the component design
// refers to — what looks like a retry for a non-square candidate is
// actually Elligator2's alternate-branch formula, not a resampling loop.
func HashToPoint(data ...[]byte) Point {
	digest := xkeccak.Sum256(data...)
	r := fieldElementFromDigest(digest)

	r2 := r.Square()
	ur2 := nonResidue.Mul(r2)
	denom := xfield.One().Add(ur2)
	if denom.IsZero() {
		// u*r^2 = -1 has a negligible, enumerable set of solutions;
		// nudge the input and retry rather than leave the map undefined.
		nudged := append(joinAll(data), 0x01)
		return HashToPoint(nudged)
	}

	v := montgomeryA.Neg().Mul(denom.Invert())
	t := v.Mul(v.Square().Add(montgomeryA.Mul(v)).Add(xfield.One()))

	var monU, y2 xfield.Fe
	if isQuadraticResidue(t) {
		monU = v
		y2 = t
	} else {
		monU = v.Neg().Sub(montgomeryA)
		y2 = t.Mul(ur2)
	}

	monV, ok := y2.Sqrt()
	if !ok {
		// The alternate branch is constructed so y2 is always a
		// residue; this is unreachable for a correct implementation
		// but guarded rather than trusted blindly.
		monV = xfield.Zero()
	}

	// Birational map from Montgomery (monU, monV) to Edwards (x, y).
	one := xfield.One()
	edY := monU.Sub(one).Mul(monU.Add(one).Invert())
	edX := edwardsScale.Mul(monU).Mul(monV.Invert())

	return fromAffine(edX, edY)
}

func joinAll(parts [][]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func fieldElementFromDigest(digest [32]byte) xfield.Fe {
	tmp := digest
	tmp[31] &= 0x7f
	n := new(big.Int).SetBytes(reverseBytes(tmp[:]))
	return xfield.FromBig(n)
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func isQuadraticResidue(a xfield.Fe) bool {
	_, ok := a.Sqrt()
	return ok
}

// GeneratorH is the second Pedersen commitment generator, the "value"
// base in C = mask*G + amount*H. Derived as a nothing-up-my-sleeve
// point via HashToPoint rather than a literal, the same way Monero
// derives H from Keccak(G).
var GeneratorH = HashToPoint(Base.Compress()[:])

// GeneratorT is the third generator CARROT's dual-key spend scheme and
// T-CLSAG's triple-generator ring signatures use: K_s = k_gi*G +
// k_ps*T. Derived the same nothing-up-my-sleeve way as GeneratorH, from
// a distinct domain string so the two generators are independently
// unpredictable relative to G.
var GeneratorT = HashToPoint([]byte("Carrot T generator"), Base.Compress()[:])

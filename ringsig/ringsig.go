// Package ringsig implements CLSAG and its Salvium triple-generator
// variant T-CLSAG: linkable ring signatures proving knowledge of the
// opening of one (pubkey, commitment) pair in a ring without revealing
// which one, and producing a key image that links repeated spends of
// the same pubkey.
package ringsig

import (
	"github.com/mxhess/salvium-core/errs"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xkeccak"
	"github.com/mxhess/salvium-core/xscalar"
	"github.com/mxhess/salvium-core/xtranscript"
)

// RingMember is one (stealth pubkey, commitment) pair in a signing ring.
type RingMember struct {
	Pubkey     xedwards.Point
	Commitment xedwards.Point
}

// Signature is a CLSAG signature: a response scalar per ring member, the
// starting challenge, and the (main, auxiliary) key images.
type Signature struct {
	S  []xscalar.Sc
	C1 xscalar.Sc
	I  xedwards.Point // key image: x * Hp(P_s)
	D  xedwards.Point // auxiliary key image: z * Hp(P_s)
}

// TSignature is a T-CLSAG signature: two response scalars per ring
// member (one for the G-opening, one for the T-opening), since the
// signed pubkey is P = xG + yT rather than plain xG.
type TSignature struct {
	Sx []xscalar.Sc
	Sy []xscalar.Sc
	C1 xscalar.Sc
	I  xedwards.Point
	D  xedwards.Point
}

const transcriptDomain = "CLSAG_agg"

// weights derives the Fiat-Shamir aggregation weights (w1, w2) from a
// transcript of the ring, key images, and the pseudo-output commitment.
// Binding every ring member and both key images into the weights (rather
// than signing them directly) is what lets verification collapse an
// n-member ring into a single per-index linear check.
func weights(ring []RingMember, I, D, pseudoOut xedwards.Point) (w1, w2 xscalar.Sc) {
	var items [][]byte
	for _, m := range ring {
		pk := m.Pubkey.Compress()
		c := m.Commitment.Compress()
		items = append(items, pk[:], c[:])
	}
	iEnc := I.Compress()
	dEnc := D.Compress()
	pEnc := pseudoOut.Compress()
	items = append(items, iEnc[:], dEnc[:], pEnc[:])

	w1 = xtranscript.HScalar(nil, transcriptDomain+"_w1", items...)
	w2 = xtranscript.HScalar(nil, transcriptDomain+"_w2", items...)
	return w1, w2
}

// aggregatePubkeys returns, for every ring index, Q_i = w1*P_i +
// w2*(C_i - C_pseudo): the single point whose discrete log the
// signature actually proves knowledge of at the real index.
func aggregatePubkeys(ring []RingMember, pseudoOut xedwards.Point, w1, w2 xscalar.Sc) []xedwards.Point {
	out := make([]xedwards.Point, len(ring))
	for i, m := range ring {
		diff := m.Commitment.Sub(pseudoOut)
		out[i] = m.Pubkey.ScalarMult(w1).Add(diff.ScalarMult(w2))
	}
	return out
}

// challenge derives c_{index} from the ring, message, and the (L, R)
// pair computed at the previous position. index is folded into the
// transcript as a single byte, so two positions of a ring of up to 256
// members never share a challenge; larger rings wrap the byte.
func challenge(ring []RingMember, msg []byte, L, R xedwards.Point, index int) xscalar.Sc {
	var items [][]byte
	for _, m := range ring {
		pk := m.Pubkey.Compress()
		c := m.Commitment.Compress()
		items = append(items, pk[:], c[:])
	}
	lEnc := L.Compress()
	rEnc := R.Compress()
	items = append(items, msg, lEnc[:], rEnc[:], []byte{byte(index)})
	digest := xkeccak.Sum256(items...)
	return xscalar.Reduce32(digest[:])
}

// Sign produces a CLSAG signature proving that, at secret index
// secretIndex, ring[secretIndex].Pubkey = x*G and
// ring[secretIndex].Commitment - pseudoOut = z*G.
func Sign(ring []RingMember, msg []byte, secretIndex int, x, z xscalar.Sc, pseudoOut xedwards.Point) (*Signature, error) {
	n := len(ring)
	if n == 0 {
		return nil, errs.ErrFatalConfiguration
	}
	if secretIndex < 0 || secretIndex >= n {
		return nil, errs.ErrFatalConfiguration
	}

	hp := xedwards.HashToPoint(ring[secretIndex].Pubkey.Compress()[:])
	I := hp.ScalarMult(x)
	D := hp.ScalarMult(z)

	w1, w2 := weights(ring, I, D, pseudoOut)
	J := I.ScalarMult(w1).Add(D.ScalarMult(w2))
	agg := aggregatePubkeys(ring, pseudoOut, w1, w2)

	s := make([]xscalar.Sc, n)
	alpha, err := xscalar.Random()
	if err != nil {
		return nil, err
	}

	L := xedwards.ScalarMultBase(alpha)
	R := hp.ScalarMult(alpha)

	c := challenge(ring, msg, L, R, (secretIndex+1)%n)
	var c1 xscalar.Sc
	idx := (secretIndex + 1) % n
	if idx == 0 {
		c1 = c // C1 is the challenge at index 0, where Verify starts
	}

	for idx != secretIndex {
		si, err := xscalar.Random()
		if err != nil {
			return nil, err
		}
		s[idx] = si

		Li := xedwards.ScalarMultBase(si).Add(agg[idx].ScalarMult(c))
		Ri := hp.ScalarMult(si).Add(J.ScalarMult(c))

		next := (idx + 1) % n
		c = challenge(ring, msg, Li, Ri, next)
		if next == 0 {
			c1 = c
		}
		idx = next
	}
	if n == 1 {
		c1 = c
	}

	closingSecret := w1.Mul(x).Add(w2.Mul(z))
	s[secretIndex] = alpha.Sub(c.Mul(closingSecret))

	return &Signature{S: s, C1: c1, I: I, D: D}, nil
}

// Verify checks a CLSAG signature against a ring, message, and pseudo
// output commitment.
func Verify(ring []RingMember, msg []byte, sig *Signature, pseudoOut xedwards.Point) bool {
	n := len(ring)
	if n == 0 || len(sig.S) != n {
		return false
	}

	w1, w2 := weights(ring, sig.I, sig.D, pseudoOut)
	J := sig.I.ScalarMult(w1).Add(sig.D.ScalarMult(w2))
	agg := aggregatePubkeys(ring, pseudoOut, w1, w2)

	c := sig.C1
	for i := 0; i < n; i++ {
		hp := xedwards.HashToPoint(ring[i].Pubkey.Compress()[:])
		L := xedwards.ScalarMultBase(sig.S[i]).Add(agg[i].ScalarMult(c))
		R := hp.ScalarMult(sig.S[i]).Add(J.ScalarMult(c))
		next := (i + 1) % n
		c = challenge(ring, msg, L, R, next)
	}

	return c.Equal(sig.C1)
}

// TSign produces a T-CLSAG signature proving knowledge of (x, y) such
// that ring[secretIndex].Pubkey = x*G + y*T and
// ring[secretIndex].Commitment - pseudoOut = z*G. The key image only
// ever binds the G-component secret x, matching CLSAG's linkability
// semantics: T is a blinding addition, not a second spend authority.
func TSign(ring []RingMember, msg []byte, secretIndex int, x, y, z xscalar.Sc, pseudoOut xedwards.Point) (*TSignature, error) {
	n := len(ring)
	if n == 0 {
		return nil, errs.ErrFatalConfiguration
	}
	if secretIndex < 0 || secretIndex >= n {
		return nil, errs.ErrFatalConfiguration
	}

	hp := xedwards.HashToPoint(ring[secretIndex].Pubkey.Compress()[:])
	I := hp.ScalarMult(x)
	D := hp.ScalarMult(z)

	w1, w2 := weights(ring, I, D, pseudoOut)
	J := I.ScalarMult(w1).Add(D.ScalarMult(w2))
	agg := aggregatePubkeys(ring, pseudoOut, w1, w2)

	sx := make([]xscalar.Sc, n)
	sy := make([]xscalar.Sc, n)

	alphaX, err := xscalar.Random()
	if err != nil {
		return nil, err
	}
	alphaY, err := xscalar.Random()
	if err != nil {
		return nil, err
	}

	L := xedwards.ScalarMultBase(alphaX).Add(xedwards.GeneratorT.ScalarMult(alphaY))
	R := hp.ScalarMult(alphaX)

	c := challenge(ring, msg, L, R, (secretIndex+1)%n)
	var c1 xscalar.Sc
	idx := (secretIndex + 1) % n
	if idx == 0 {
		c1 = c
	}

	for idx != secretIndex {
		sxi, err := xscalar.Random()
		if err != nil {
			return nil, err
		}
		syi, err := xscalar.Random()
		if err != nil {
			return nil, err
		}
		sx[idx] = sxi
		sy[idx] = syi

		Li := xedwards.ScalarMultBase(sxi).Add(xedwards.GeneratorT.ScalarMult(syi)).Add(agg[idx].ScalarMult(c))
		Ri := hp.ScalarMult(sxi).Add(J.ScalarMult(c))

		next := (idx + 1) % n
		c = challenge(ring, msg, Li, Ri, next)
		if next == 0 {
			c1 = c
		}
		idx = next
	}
	if n == 1 {
		c1 = c
	}

	closingSecret := w1.Mul(x).Add(w2.Mul(z))
	sx[secretIndex] = alphaX.Sub(c.Mul(closingSecret))
	sy[secretIndex] = alphaY.Sub(c.Mul(w1.Mul(y)))

	return &TSignature{Sx: sx, Sy: sy, C1: c1, I: I, D: D}, nil
}

// TVerify checks a T-CLSAG signature.
func TVerify(ring []RingMember, msg []byte, sig *TSignature, pseudoOut xedwards.Point) bool {
	n := len(ring)
	if n == 0 || len(sig.Sx) != n || len(sig.Sy) != n {
		return false
	}

	w1, w2 := weights(ring, sig.I, sig.D, pseudoOut)
	J := sig.I.ScalarMult(w1).Add(sig.D.ScalarMult(w2))
	agg := aggregatePubkeys(ring, pseudoOut, w1, w2)

	c := sig.C1
	for i := 0; i < n; i++ {
		hp := xedwards.HashToPoint(ring[i].Pubkey.Compress()[:])
		L := xedwards.ScalarMultBase(sig.Sx[i]).Add(xedwards.GeneratorT.ScalarMult(sig.Sy[i])).Add(agg[i].ScalarMult(c))
		R := hp.ScalarMult(sig.Sx[i]).Add(J.ScalarMult(c))
		next := (i + 1) % n
		c = challenge(ring, msg, L, R, next)
	}

	return c.Equal(sig.C1)
}

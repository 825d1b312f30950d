// Package engine exposes wallet-crypto operations behind a single
// capability interface, so call sites never hard-code a backend variant.
// Only a software implementation ships today, but the interface boundary
// is where a future vendor-native or accelerator backend would plug in
// without touching any caller.
package engine

import (
	"github.com/mxhess/salvium-core/bulletproof"
	"github.com/mxhess/salvium-core/ringsig"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xkeccak"
	"github.com/mxhess/salvium-core/xscalar"
)

// Engine is the capability surface wallet code builds against: hashing,
// scalar and point arithmetic, and the two proof systems the transaction
// builder needs. A caller holding an Engine never needs to know whether
// the operations underneath run in pure Go, against a vendor-native
// library, or on a hardware accelerator.
type Engine interface {
	// HashLegacy computes the Keccak-256 legacy digest used for key
	// images, CLSAG transcripts, and pre-CARROT derivations.
	HashLegacy(data ...[]byte) [32]byte

	// ScalarRandom returns a uniformly random scalar mod L.
	ScalarRandom() (xscalar.Sc, error)

	// ScalarReduce reduces a wide byte string to a scalar mod L.
	ScalarReduce(wide []byte) xscalar.Sc

	// PointMultBase computes s*G for the Ed25519 base point G.
	PointMultBase(s xscalar.Sc) xedwards.Point

	// HashToPoint maps arbitrary data onto the curve, used for key
	// image generation and Pedersen commitment generators.
	HashToPoint(data ...[]byte) xedwards.Point

	// Sign produces a CLSAG ring signature over msg.
	Sign(ring []ringsig.RingMember, msg []byte, secretIndex int, x, z xscalar.Sc, pseudoOut xedwards.Point) (*ringsig.Signature, error)

	// Verify checks a CLSAG ring signature.
	Verify(ring []ringsig.RingMember, msg []byte, sig *ringsig.Signature, pseudoOut xedwards.Point) bool

	// TSign produces a T-CLSAG (dual-key, Salvium-One) ring signature.
	TSign(ring []ringsig.RingMember, msg []byte, secretIndex int, x, y, z xscalar.Sc, pseudoOut xedwards.Point) (*ringsig.TSignature, error)

	// TVerify checks a T-CLSAG ring signature.
	TVerify(ring []ringsig.RingMember, msg []byte, sig *ringsig.TSignature, pseudoOut xedwards.Point) bool

	// ProveRange builds an aggregate Bulletproof+ proof over amounts,
	// committed with masks.
	ProveRange(amounts []uint64, masks []xscalar.Sc) (*bulletproof.RangeProof, error)

	// VerifyRange checks a Bulletproof+ proof.
	VerifyRange(proof *bulletproof.RangeProof) bool
}

// Software is the pure-Go Engine backed directly by this module's own
// xscalar/xedwards/ringsig/bulletproof packages. It has no state and is
// safe for concurrent use, since every package it wraps already is.
type Software struct{}

// New returns the software backend. It is the only Engine variant this
// module ships; the constructor exists so call sites depend on the
// interface, not the concrete type, once a second backend arrives.
func New() Engine { return Software{} }

func (Software) HashLegacy(data ...[]byte) [32]byte { return xkeccak.Sum256(data...) }

func (Software) ScalarRandom() (xscalar.Sc, error) { return xscalar.Random() }

func (Software) ScalarReduce(wide []byte) xscalar.Sc { return xscalar.Reduce32(wide) }

func (Software) PointMultBase(s xscalar.Sc) xedwards.Point { return xedwards.ScalarMultBase(s) }

func (Software) HashToPoint(data ...[]byte) xedwards.Point { return xedwards.HashToPoint(data...) }

func (Software) Sign(ring []ringsig.RingMember, msg []byte, secretIndex int, x, z xscalar.Sc, pseudoOut xedwards.Point) (*ringsig.Signature, error) {
	return ringsig.Sign(ring, msg, secretIndex, x, z, pseudoOut)
}

func (Software) Verify(ring []ringsig.RingMember, msg []byte, sig *ringsig.Signature, pseudoOut xedwards.Point) bool {
	return ringsig.Verify(ring, msg, sig, pseudoOut)
}

func (Software) TSign(ring []ringsig.RingMember, msg []byte, secretIndex int, x, y, z xscalar.Sc, pseudoOut xedwards.Point) (*ringsig.TSignature, error) {
	return ringsig.TSign(ring, msg, secretIndex, x, y, z, pseudoOut)
}

func (Software) TVerify(ring []ringsig.RingMember, msg []byte, sig *ringsig.TSignature, pseudoOut xedwards.Point) bool {
	return ringsig.TVerify(ring, msg, sig, pseudoOut)
}

func (Software) ProveRange(amounts []uint64, masks []xscalar.Sc) (*bulletproof.RangeProof, error) {
	return bulletproof.Prove(amounts, masks)
}

func (Software) VerifyRange(proof *bulletproof.RangeProof) bool { return bulletproof.Verify(proof) }

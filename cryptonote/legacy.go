package cryptonote

import (
	"github.com/mxhess/salvium-core/errs"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xkeccak"
	"github.com/mxhess/salvium-core/xscalar"
)

// Derivation computes the cofactor-cleared Diffie-Hellman shared point
// `8 * scalar * point` that every legacy CryptoNote stealth-address
// derivation is built from: a sender computes it from its one-time
// transaction secret and the recipient's view public key, and the
// recipient computes the identical point from their view secret and the
// transaction's public key.
func Derivation(scalar xscalar.Sc, point xedwards.Point) xedwards.Point {
	return point.ScalarMult(scalar).Double().Double().Double()
}

// DeriveOutputSecret hashes a derivation and an output index into the
// scalar `H_s(derivation || output_index)` that both extends the
// recipient's spend public key (one-time output key) and, added to the
// recipient's spend secret, recovers the one-time spending key.
func DeriveOutputSecret(derivation xedwards.Point, outputIndex uint64) xscalar.Sc {
	d := derivation.Compress()
	buf := AppendVarint(d[:], outputIndex)
	digest := xkeccak.Sum256(buf)
	return xscalar.Reduce32(digest)
}

// DeriveOutputPubkey computes the one-time output public key
// `P = B + H_s(derivation || output_index)*G` a sender places on chain
// for a legacy (non-CARROT) destination with spend public key B.
func DeriveOutputPubkey(derivation xedwards.Point, outputIndex uint64, spendPublic xedwards.Point) xedwards.Point {
	hs := DeriveOutputSecret(derivation, outputIndex)
	return spendPublic.Add(xedwards.ScalarMultBase(hs))
}

// ViewTag draws the single-byte fast-reject filter CryptoNote outputs
// carry from the derivation and output index, the legacy analogue of
// CARROT's 3-byte view tag.
func ViewTag(derivation xedwards.Point, outputIndex uint64) byte {
	d := derivation.Compress()
	buf := AppendVarint(d[:], outputIndex)
	digest := xkeccak.Sum256([]byte("view_tag"), buf)
	return digest[0]
}

// ScannedOutput is everything recovered once a legacy output is
// confirmed owned.
type ScannedOutput struct {
	OutputIndex  uint64
	OneTimeKey   xedwards.Point
	SpendSecret  xscalar.Sc // the recoverable one-time spend secret, b + H_s
	Mask         xscalar.Sc // commitment blinding factor; TryScanLegacy leaves it zero
	Amount       uint64
}

// TryScanLegacy recognizes a legacy output against a single (spend
// secret, view secret) keypair. viewTag is optional fast-path data; when
// present (hasViewTag), a mismatch short-circuits before the more
// expensive public-key comparison.
func TryScanLegacy(viewSecret, spendSecret xscalar.Sc, txPubkey xedwards.Point, outputIndex uint64, outputKey xedwards.Point, viewTag byte, hasViewTag bool) (*ScannedOutput, error) {
	derivation := Derivation(viewSecret, txPubkey)

	if hasViewTag {
		if ViewTag(derivation, outputIndex) != viewTag {
			return nil, errs.ErrIntegrityViolation
		}
	}

	hs := DeriveOutputSecret(derivation, outputIndex)
	spendPublic := xedwards.ScalarMultBase(spendSecret)
	expected := spendPublic.Add(xedwards.ScalarMultBase(hs))
	if !expected.Equal(outputKey) {
		return nil, errs.ErrIntegrityViolation
	}

	return &ScannedOutput{
		OutputIndex: outputIndex,
		OneTimeKey:  outputKey,
		SpendSecret: spendSecret.Add(hs),
	}, nil
}

// KeyImage derives the spend-capable key image `I = x · H_p(Ko)` for a
// scanned legacy output, where x is the recovered one-time spend
// secret.
func KeyImage(out *ScannedOutput) xedwards.Point {
	koEnc := out.OneTimeKey.Compress()
	hp := xedwards.HashToPoint(koEnc[:])
	return hp.ScalarMult(out.SpendSecret)
}

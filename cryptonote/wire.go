package cryptonote

import (
	"github.com/mxhess/salvium-core/bulletproof"
	"github.com/mxhess/salvium-core/errs"
	"github.com/mxhess/salvium-core/ringsig"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xscalar"
)

// Output tag bytes distinguishing a legacy one-time key from a
// view-tagged one.
const (
	outTagKey        = 0x02
	outTagKeyViewTag = 0x03
)

// Input tag bytes.
const (
	inTagToKey   = 0x02
	inTagGen     = 0xff // coinbase
)

// TxInToKey is a ring-signature-spending transaction input.
type TxInToKey struct {
	Amount      uint64
	KeyOffsets  []uint64 // ring member offsets, delta-encoded per convention
	KeyImage    [32]byte
}

// TxInGen is a coinbase input.
type TxInGen struct {
	Height uint64
}

// TxOut is a transaction output: an amount (0 for RingCT outputs, where
// the real amount is hidden in the Pedersen commitment) and a one-time
// key, optionally carrying a fast-scan view tag.
type TxOut struct {
	Amount   uint64
	Key      [32]byte
	ViewTag  byte
	HasViewTag bool
}

// TxPrefix is the unsigned portion of a transaction: version, lock
// time, inputs, outputs, and the free-form extra field.
type TxPrefix struct {
	Version    uint64
	UnlockTime uint64
	Inputs     []TxInput
	Outputs    []TxOut
	Extra      []byte
}

// TxInput is either a TxInToKey or a TxInGen, never both.
type TxInput struct {
	ToKey *TxInToKey
	Gen   *TxInGen
}

// AppendTxInput serializes one input per the `0x02 ||
// varint(amount) || varint(n_key_offsets) || varint(offset)× ||
// key_image(32)` / `0xff || varint(height)` layout.
func AppendTxInput(dst []byte, in TxInput) ([]byte, error) {
	switch {
	case in.ToKey != nil:
		dst = append(dst, inTagToKey)
		dst = AppendVarint(dst, in.ToKey.Amount)
		dst = AppendVarint(dst, uint64(len(in.ToKey.KeyOffsets)))
		for _, off := range in.ToKey.KeyOffsets {
			dst = AppendVarint(dst, off)
		}
		dst = append(dst, in.ToKey.KeyImage[:]...)
		return dst, nil
	case in.Gen != nil:
		dst = append(dst, inTagGen)
		dst = AppendVarint(dst, in.Gen.Height)
		return dst, nil
	default:
		return nil, errs.ErrFatalConfiguration
	}
}

// AppendTxOutput serializes one output per the `varint(amount) ||
// (0x02 || Ko(32)) | (0x03 || Ko(32) || view_tag(1))` layout.
func AppendTxOutput(dst []byte, out TxOut) []byte {
	dst = AppendVarint(dst, out.Amount)
	if out.HasViewTag {
		dst = append(dst, outTagKeyViewTag)
		dst = append(dst, out.Key[:]...)
		dst = append(dst, out.ViewTag)
		return dst
	}
	dst = append(dst, outTagKey)
	dst = append(dst, out.Key[:]...)
	return dst
}

// AppendTxPrefix serializes a transaction prefix: `varint(version) ||
// varint(unlock_time) || varint(n_in) || inputs || varint(n_out) ||
// outputs || varint(extra_len) || extra`. The Salvium tail, appended
// separately by the caller, follows immediately after.
func AppendTxPrefix(dst []byte, p TxPrefix) ([]byte, error) {
	dst = AppendVarint(dst, p.Version)
	dst = AppendVarint(dst, p.UnlockTime)
	dst = AppendVarint(dst, uint64(len(p.Inputs)))
	for _, in := range p.Inputs {
		var err error
		dst, err = AppendTxInput(dst, in)
		if err != nil {
			return nil, err
		}
	}
	dst = AppendVarint(dst, uint64(len(p.Outputs)))
	for _, out := range p.Outputs {
		dst = AppendTxOutput(dst, out)
	}
	dst = AppendVarint(dst, uint64(len(p.Extra)))
	dst = append(dst, p.Extra...)
	return dst, nil
}

// RCTBase is the ring-confidential-transaction header: the protocol
// type byte and, for non-coinbase transactions, the varint-encoded fee.
type RCTBase struct {
	RCTType   byte
	Fee       uint64
	IsCoinbase bool
}

// AppendRCTBase serializes `rct_type(1 byte) || varint(fee)`, omitting
// the fee entirely for coinbase transactions.
func AppendRCTBase(dst []byte, b RCTBase) []byte {
	dst = append(dst, b.RCTType)
	if !b.IsCoinbase {
		dst = AppendVarint(dst, b.Fee)
	}
	return dst
}

// AppendCLSAG serializes a CLSAG signature as `s[0..n]·32 || c1·32 ||
// D·32`; the main key image I is omitted because verification
// reconstructs it from the ring and doesn't need it restated.
func AppendCLSAG(dst []byte, sig *ringsig.Signature) []byte {
	for _, s := range sig.S {
		b := s.Bytes()
		dst = append(dst, b[:]...)
	}
	c1 := sig.C1.Bytes()
	dst = append(dst, c1[:]...)
	d := sig.D.Compress()
	dst = append(dst, d[:]...)
	return dst
}

// AppendTCLSAG serializes a T-CLSAG signature: both response-scalar
// vectors, the starting challenge, and the auxiliary key image.
func AppendTCLSAG(dst []byte, sig *ringsig.TSignature) []byte {
	for _, s := range sig.Sx {
		b := s.Bytes()
		dst = append(dst, b[:]...)
	}
	for _, s := range sig.Sy {
		b := s.Bytes()
		dst = append(dst, b[:]...)
	}
	c1 := sig.C1.Bytes()
	dst = append(dst, c1[:]...)
	d := sig.D.Compress()
	dst = append(dst, d[:]...)
	return dst
}

// AppendBulletproofPlus serializes a Bulletproof+ range proof as
// `u32_LE v_count || V₀..V_{v-1} || proof_bytes`, where proof_bytes
// packs A, S, T1, T2, TauX, Mu, THat, the L/R fold vectors, and the two
// final scalars in that order.
func AppendBulletproofPlus(dst []byte, proof *bulletproof.RangeProof) []byte {
	dst = appendUint32LE(dst, uint32(len(proof.V)))
	for _, v := range proof.V {
		b := v.Compress()
		dst = append(dst, b[:]...)
	}
	dst = appendPoint(dst, proof.A)
	dst = appendPoint(dst, proof.S)
	dst = appendPoint(dst, proof.T1)
	dst = appendPoint(dst, proof.T2)
	dst = appendScalar(dst, proof.TauX)
	dst = appendScalar(dst, proof.Mu)
	dst = appendScalar(dst, proof.THat)
	dst = appendUint32LE(dst, uint32(len(proof.L)))
	for i := range proof.L {
		dst = appendPoint(dst, proof.L[i])
		dst = appendPoint(dst, proof.R[i])
	}
	dst = appendScalar(dst, proof.AFinal)
	dst = appendScalar(dst, proof.BFinal)
	return dst
}

// AppendEcdhAmount serializes the V2+ per-output ecdh info: an 8-byte
// XOR-masked amount, with no mask field (the commitment mask travels in
// the CARROT/legacy derivation instead of alongside the ciphertext).
func AppendEcdhAmount(dst []byte, encAmount [8]byte) []byte {
	return append(dst, encAmount[:]...)
}

func appendUint32LE(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendPoint(dst []byte, p xedwards.Point) []byte {
	b := p.Compress()
	return append(dst, b[:]...)
}

func appendScalar(dst []byte, s xscalar.Sc) []byte {
	b := s.Bytes()
	return append(dst, b[:]...)
}

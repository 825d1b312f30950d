package carrot

import (
	"crypto/rand"

	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xmontgomery"
	"github.com/mxhess/salvium-core/xscalar"
	"github.com/mxhess/salvium-core/xtranscript"
)

// EnoteType distinguishes the CARROT output flavors the commitment-mask
// and key-extension derivations bind into their transcripts.
type EnoteType byte

const (
	EnoteTypePayment EnoteType = iota
	EnoteTypeChange
	EnoteTypeSelfSend
)

const (
	inputContextRingCT   = 'R'
	inputContextCoinbase = 'C'
)

// InputContextLen is the fixed 33-byte length of the input-context
// field every CARROT derivation binds into its transcript.
const InputContextLen = 33

// InputContextRingCT builds the 33-byte input context for an ordinary
// ring-signature-spending transaction: 'R' followed by the first
// input's key image.
func InputContextRingCT(firstKeyImage [32]byte) [InputContextLen]byte {
	var out [InputContextLen]byte
	out[0] = inputContextRingCT
	copy(out[1:], firstKeyImage[:])
	return out
}

// InputContextCoinbase builds the 33-byte input context for a coinbase
// transaction: 'C' followed by the little-endian block height,
// zero-padded to fill the field.
func InputContextCoinbase(height uint64) [InputContextLen]byte {
	var out [InputContextLen]byte
	out[0] = inputContextCoinbase
	copy(out[1:9], encodeU64(height))
	return out
}

// Enote is a constructed CARROT output, ready for inclusion in a
// transaction's output set.
type Enote struct {
	Ko           xedwards.Point
	C            xedwards.Point
	DE           [32]byte // ephemeral Montgomery pubkey (X25519 u-coordinate)
	ViewTag      [3]byte
	EncAmount    [8]byte
	EncAnchor    [16]byte
	HasPaymentID bool
	EncPaymentID [8]byte
	InputContext [InputContextLen]byte
}

// BuildOutputParams collects the inputs to BuildOutput.
type BuildOutputParams struct {
	Recipient    Address
	Amount       uint64
	PaymentID    *[8]byte // nil for subaddress destinations, which don't carry one
	InputContext [InputContextLen]byte
	EnoteType    EnoteType
	IsCoinbase   bool
}

// BuildOutput constructs a CARROT output paying amount to recipient,
// returning the enote and the commitment mask k_a the sender needs to
// keep (for change detection / self-send bookkeeping) or discard (for
// a normal payment to someone else).
func BuildOutput(p BuildOutputParams) (*Enote, xscalar.Sc, error) {
	anchor, err := randomAnchor()
	if err != nil {
		return nil, xscalar.Sc{}, err
	}
	return buildOutputWithAnchor(p, anchor)
}

// BuildSelfSendOutput constructs a self-send or coinbase output, whose
// anchor is derived deterministically (the "Janus anchor") from the
// account's view-balance key rather than drawn from the CSPRNG, so a
// wallet can recognize its own self-sends without storing extra state.
func BuildSelfSendOutput(acc *AccountKeys, p BuildOutputParams) (*Enote, xscalar.Sc, error) {
	// The Janus anchor formula needs D_e and Ko, which are themselves
	// only known after constructing the rest of the output; derive with
	// a placeholder anchor first, then recompute once D_e/Ko are known.
	placeholder, err := randomAnchor()
	if err != nil {
		return nil, xscalar.Sc{}, err
	}
	enote, _, err := buildOutputWithAnchor(p, placeholder)
	if err != nil {
		return nil, xscalar.Sc{}, err
	}
	kvb := acc.KVB.Bytes()
	koEnc := enote.Ko.Compress()
	anchor := xtranscript.H16(kvb[:], "Carrot janus anchor special", enote.DE[:], p.InputContext[:], koEnc[:])
	return buildOutputWithAnchor(p, anchor)
}

func randomAnchor() ([16]byte, error) {
	var anchor [16]byte
	if _, err := rand.Read(anchor[:]); err != nil {
		return anchor, err
	}
	return anchor, nil
}

func buildOutputWithAnchor(p BuildOutputParams, anchor [16]byte) (*Enote, xscalar.Sc, error) {
	Ks := p.Recipient.SpendPublic
	Kv := p.Recipient.ViewPublic

	var paymentIDBytes [8]byte
	if p.PaymentID != nil {
		paymentIDBytes = *p.PaymentID
	}

	ksEnc := Ks.Compress()
	dE := xtranscript.HScalar(nil, "Carrot sending key normal", anchor[:], p.InputContext[:], ksEnc[:], paymentIDBytes[:])
	dEBytes := xmontgomery.ScalarFromSc(dE)

	var baseU [32]byte
	if p.Recipient.IsMain() {
		baseU = xmontgomery.BasePoint
	} else {
		baseU = xmontgomery.ConvertEdwardsY(Ks.AffineY()).Bytes()
	}
	DE := xmontgomery.ScalarMultSalvium(dEBytes, baseU)

	kvU := xmontgomery.ConvertEdwardsY(Kv.AffineY()).Bytes()
	sSRUnctx := xmontgomery.ScalarMultSalvium(dEBytes, kvU)

	sSRCtx := xtranscript.H32(sSRUnctx[:], "Carrot sender-receiver secret", DE[:], p.InputContext[:])

	var ka xscalar.Sc
	if p.IsCoinbase {
		ka = xscalar.One()
	} else {
		ka = xtranscript.HScalar(sSRCtx[:], "Carrot commitment mask", encodeU64(p.Amount), ksEnc[:], []byte{byte(p.EnoteType)})
	}
	C := xedwards.ScalarMultBase(ka).Add(xedwards.GeneratorH.ScalarMult(xscalar.FromUint64(p.Amount)))
	cEnc := C.Compress()

	koG := xtranscript.HScalar(sSRCtx[:], "Carrot key extension G", cEnc[:])
	koT := xtranscript.HScalar(sSRCtx[:], "Carrot key extension T", cEnc[:])
	Ko := Ks.Add(xedwards.ScalarMultBase(koG)).Add(xedwards.GeneratorT.ScalarMult(koT))
	koEnc := Ko.Compress()

	viewTag := xtranscript.H3(sSRUnctx[:], "Carrot view tag", p.InputContext[:], koEnc[:])

	encAmount := xorBytes8(xtranscript.H8(sSRCtx[:], "Carrot encrypted amount", koEnc[:]), encodeU64(p.Amount))
	encAnchor := xorBytes16(xtranscript.H16(sSRCtx[:], "Carrot encrypted anchor", koEnc[:]), anchor)

	enote := &Enote{
		Ko:           Ko,
		C:            C,
		DE:           DE,
		ViewTag:      viewTag,
		EncAmount:    encAmount,
		EncAnchor:    encAnchor,
		InputContext: p.InputContext,
	}
	if p.PaymentID != nil {
		pad := xtranscript.H8(sSRCtx[:], "Carrot encrypted payment id", koEnc[:])
		enote.HasPaymentID = true
		enote.EncPaymentID = xorBytes8(pad, paymentIDBytes)
	}
	return enote, ka, nil
}

func xorBytes8(a [8]byte, b []byte) [8]byte {
	var out [8]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func xorBytes16(a [16]byte, b [16]byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

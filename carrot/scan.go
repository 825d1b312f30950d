package carrot

import (
	"github.com/mxhess/salvium-core/errs"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xmontgomery"
	"github.com/mxhess/salvium-core/xscalar"
	"github.com/mxhess/salvium-core/xtranscript"
)

// SubaddressLookup resolves a spend public key to the (major, minor)
// index that derived it. The scanner package's SubaddressMap is the
// production implementation; this package only depends on the
// interface so it never needs to know how the map is stored.
type SubaddressLookup interface {
	Lookup(spendPublic [32]byte) (major, minor uint32, ok bool)
}

// OwnedOutput is everything a wallet needs to remember about an output
// it controls once scanning recognizes it.
type OwnedOutput struct {
	Ko           xedwards.Point
	C            xedwards.Point
	Amount       uint64
	Mask         xscalar.Sc // k_a, the commitment blinding factor
	Major, Minor uint32
	SharedSecret [32]byte // s_sr_ctx, needed to derive the key image later
	EnoteType    EnoteType
}

// TryScanExternal attempts to recognize enote as an output paid to acc
// via the external (view-incoming) derivation path, the one an
// outsider's CARROT sending logic produces. It returns
// (nil, errs.ErrIntegrityViolation) when the view tag, the amount
// commitment, or the spend-key lookup fails to confirm ownership —
// the expected, non-exceptional outcome for the vast majority of
// scanned outputs.
func TryScanExternal(acc *AccountKeys, enote *Enote, lookup SubaddressLookup) (*OwnedOutput, error) {
	kviBytes := xmontgomery.ScalarFromSc(acc.KVI)
	sSRUnctx := xmontgomery.ScalarMultSalvium(kviBytes, enote.DE)
	return tryScanCommon(enote, sSRUnctx, lookup, []EnoteType{EnoteTypePayment}, false)
}

// TryScanInternal attempts to recognize enote as a self-send, change,
// or coinbase output, where the sender and recipient share the same
// wallet and the sender-receiver secret is the view-balance key used
// directly, without an X25519 ECDH step. Because the sender chooses
// which EnoteType to bind into the commitment-mask transcript, and a
// coinbase output skips that transcript entirely (k_a = 1), scanning
// has to try each possibility in turn rather than assume one.
func TryScanInternal(acc *AccountKeys, enote *Enote, lookup SubaddressLookup) (*OwnedOutput, error) {
	candidates := []EnoteType{EnoteTypeChange, EnoteTypeSelfSend}
	return tryScanCommon(enote, acc.KVB.Bytes(), lookup, candidates, true)
}

func tryScanCommon(enote *Enote, sSRUnctx [32]byte, lookup SubaddressLookup, candidates []EnoteType, tryCoinbase bool) (*OwnedOutput, error) {
	koEnc := enote.Ko.Compress()

	vtExpected := xtranscript.H3(sSRUnctx[:], "Carrot view tag", enote.InputContext[:], koEnc[:])
	if vtExpected != enote.ViewTag {
		return nil, errs.ErrIntegrityViolation
	}

	sSRCtx := xtranscript.H32(sSRUnctx[:], "Carrot sender-receiver secret", enote.DE[:], enote.InputContext[:])

	amountPad := xtranscript.H8(sSRCtx[:], "Carrot encrypted amount", koEnc[:])
	amountBytes := xorBytes8(amountPad, enote.EncAmount[:])
	amount := decodeU64(amountBytes[:])

	// k_o^G/k_o^T are keyed by the observed commitment C, exactly as the
	// builder derived them (BuildOutput keys them the same way): C is
	// public chain data available to the scanner immediately, so this
	// recovers K_s without first needing K_s to rebuild C.
	cEnc := enote.C.Compress()
	koG := xtranscript.HScalar(sSRCtx[:], "Carrot key extension G", cEnc[:])
	koT := xtranscript.HScalar(sSRCtx[:], "Carrot key extension T", cEnc[:])
	ksCandidate := enote.Ko.Sub(xedwards.ScalarMultBase(koG)).Sub(xedwards.GeneratorT.ScalarMult(koT))
	ksEnc := ksCandidate.Compress()

	major, minor, ok := lookup.Lookup(ksEnc)
	if !ok {
		return nil, errs.ErrIntegrityViolation
	}

	amountPoint := xedwards.GeneratorH.ScalarMult(xscalar.FromUint64(amount))

	if tryCoinbase {
		cExpected := xedwards.ScalarMultBase(xscalar.One()).Add(amountPoint)
		if cExpected.Equal(enote.C) {
			return &OwnedOutput{
				Ko: enote.Ko, C: enote.C, Amount: amount, Mask: xscalar.One(),
				Major: major, Minor: minor, SharedSecret: sSRCtx,
				EnoteType: EnoteTypePayment,
			}, nil
		}
	}

	for _, enoteType := range candidates {
		ka := xtranscript.HScalar(sSRCtx[:], "Carrot commitment mask", encodeU64(amount), ksEnc[:], []byte{byte(enoteType)})
		cExpected := xedwards.ScalarMultBase(ka).Add(amountPoint)
		if cExpected.Equal(enote.C) {
			return &OwnedOutput{
				Ko: enote.Ko, C: enote.C, Amount: amount, Mask: ka,
				Major: major, Minor: minor, SharedSecret: sSRCtx,
				EnoteType: enoteType,
			}, nil
		}
	}

	return nil, errs.ErrIntegrityViolation
}

func decodeU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// KeyImage derives the spend-capable key image I = x*Hp(Ko) for an
// owned output, where x is the account's full generate-image secret
// scaled by the commitment-mask bookkeeping CARROT's key-extension
// scheme requires: the true spend scalar at this output is
// KGI + k_o^G, recovered the same way the scan above recovered K_s.
func KeyImage(acc *AccountKeys, out *OwnedOutput) xedwards.Point {
	koEnc := out.Ko.Compress()
	cEnc := out.C.Compress()
	koG := xtranscript.HScalar(out.SharedSecret[:], "Carrot key extension G", cEnc[:])
	x := acc.KGI.Add(koG)
	if out.Major != 0 || out.Minor != 0 {
		kgas := acc.KGAS.Bytes()
		secret := xtranscript.H32(kgas[:], "Carrot subaddress secret", encodeU32(out.Major), encodeU32(out.Minor))
		x = x.Add(xtranscript.HScalar(secret[:], "Carrot subaddress offset G", encodeU32(out.Major), encodeU32(out.Minor)))
	}
	hp := xedwards.HashToPoint(koEnc[:])
	return hp.ScalarMult(x)
}

package cryptonote

import (
	"bytes"
	"testing"

	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xscalar"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 129, 16383, 16384, 1 << 32, 1<<64 - 1}
	for _, v := range values {
		enc := EncodeVarint(v)
		got, n, err := DecodeVarint(enc)
		if err != nil {
			t.Fatalf("DecodeVarint(%d): %v", v, err)
		}
		if n != len(enc) {
			t.Errorf("value %d: consumed %d bytes, encoding was %d bytes", v, n, len(enc))
		}
		if got != v {
			t.Errorf("value %d round-tripped as %d", v, got)
		}
	}
}

func TestVarintTruncated(t *testing.T) {
	_, _, err := DecodeVarint([]byte{0x80, 0x80})
	if err != ErrVarintTruncated {
		t.Errorf("expected ErrVarintTruncated, got %v", err)
	}
}

func TestVarintSmallestEncoding(t *testing.T) {
	if got := EncodeVarint(0); len(got) != 1 {
		t.Errorf("0 should encode to 1 byte, got %d", len(got))
	}
	if got := EncodeVarint(127); len(got) != 1 {
		t.Errorf("127 should encode to 1 byte, got %d", len(got))
	}
	if got := EncodeVarint(128); len(got) != 2 {
		t.Errorf("128 should encode to 2 bytes, got %d", len(got))
	}
}

func mustScalar(t *testing.T) xscalar.Sc {
	t.Helper()
	s, err := xscalar.Random()
	if err != nil {
		t.Fatalf("xscalar.Random: %v", err)
	}
	return s
}

func TestLegacyScanRecognizesOwnOutput(t *testing.T) {
	viewSecret := mustScalar(t)
	spendSecret := mustScalar(t)
	spendPublic := xedwards.ScalarMultBase(spendSecret)
	viewPublic := xedwards.ScalarMultBase(viewSecret)

	txSecret := mustScalar(t)
	txPubkey := xedwards.ScalarMultBase(txSecret)

	derivation := Derivation(txSecret, viewPublic)
	const outputIndex = 3
	outputKey := DeriveOutputPubkey(derivation, outputIndex, spendPublic)
	vt := ViewTag(derivation, outputIndex)

	out, err := TryScanLegacy(viewSecret, spendSecret, txPubkey, outputIndex, outputKey, vt, true)
	if err != nil {
		t.Fatalf("TryScanLegacy: %v", err)
	}

	recoveredPublic := xedwards.ScalarMultBase(out.SpendSecret)
	if !recoveredPublic.Equal(outputKey) {
		t.Error("recovered spend secret does not open the one-time output key")
	}
}

func TestLegacyScanRejectsForeignOutput(t *testing.T) {
	owner := mustScalar(t)
	ownerSpend := mustScalar(t)
	ownerViewPublic := xedwards.ScalarMultBase(owner)

	stranger := mustScalar(t)
	strangerSpend := mustScalar(t)

	txSecret := mustScalar(t)
	txPubkey := xedwards.ScalarMultBase(txSecret)

	derivation := Derivation(txSecret, ownerViewPublic)
	const outputIndex = 0
	outputKey := DeriveOutputPubkey(derivation, outputIndex, xedwards.ScalarMultBase(ownerSpend))
	vt := ViewTag(derivation, outputIndex)

	if _, err := TryScanLegacy(stranger, strangerSpend, txPubkey, outputIndex, outputKey, vt, true); err == nil {
		t.Error("scanning with unrelated keys should not recognize the output")
	}
}

func TestLegacyScanRejectsBadViewTag(t *testing.T) {
	viewSecret := mustScalar(t)
	spendSecret := mustScalar(t)
	spendPublic := xedwards.ScalarMultBase(spendSecret)
	viewPublic := xedwards.ScalarMultBase(viewSecret)

	txSecret := mustScalar(t)
	txPubkey := xedwards.ScalarMultBase(txSecret)

	derivation := Derivation(txSecret, viewPublic)
	const outputIndex = 1
	outputKey := DeriveOutputPubkey(derivation, outputIndex, spendPublic)

	if _, err := TryScanLegacy(viewSecret, spendSecret, txPubkey, outputIndex, outputKey, 0xFF, true); err == nil {
		t.Error("a wrong view tag should be rejected before the public-key comparison runs")
	}
}

func TestDerivationIsCommutative(t *testing.T) {
	viewSecret := mustScalar(t)
	txSecret := mustScalar(t)

	viewPublic := xedwards.ScalarMultBase(viewSecret)
	txPubkey := xedwards.ScalarMultBase(txSecret)

	fromSender := Derivation(txSecret, viewPublic)
	fromRecipient := Derivation(viewSecret, txPubkey)
	if !fromSender.Equal(fromRecipient) {
		t.Error("sender- and recipient-side derivation should produce the same point")
	}
}

func TestTxPrefixRoundTrip(t *testing.T) {
	var keyImage [32]byte
	keyImage[0] = 0x42
	var outKey [32]byte
	outKey[1] = 0x99

	prefix := TxPrefix{
		Version:    2,
		UnlockTime: 0,
		Inputs: []TxInput{
			{ToKey: &TxInToKey{Amount: 0, KeyOffsets: []uint64{5, 10, 3}, KeyImage: keyImage}},
		},
		Outputs: []TxOut{
			{Amount: 0, Key: outKey, HasViewTag: true, ViewTag: 0x7},
		},
		Extra: []byte{0x01, 0x02, 0x03},
	}

	enc, err := AppendTxPrefix(nil, prefix)
	if err != nil {
		t.Fatalf("AppendTxPrefix: %v", err)
	}

	decoded, n, err := DecodeTxPrefix(enc)
	if err != nil {
		t.Fatalf("DecodeTxPrefix: %v", err)
	}
	if n != len(enc) {
		t.Errorf("consumed %d bytes, expected %d", n, len(enc))
	}
	if decoded.Version != prefix.Version || decoded.UnlockTime != prefix.UnlockTime {
		t.Error("version/unlock_time mismatch after round trip")
	}
	if len(decoded.Inputs) != 1 || decoded.Inputs[0].ToKey == nil {
		t.Fatal("expected a single txin_to_key input")
	}
	if !bytes.Equal(decoded.Inputs[0].ToKey.KeyImage[:], keyImage[:]) {
		t.Error("key image mismatch after round trip")
	}
	if len(decoded.Inputs[0].ToKey.KeyOffsets) != 3 {
		t.Errorf("expected 3 key offsets, got %d", len(decoded.Inputs[0].ToKey.KeyOffsets))
	}
	if len(decoded.Outputs) != 1 || !decoded.Outputs[0].HasViewTag || decoded.Outputs[0].ViewTag != 0x7 {
		t.Error("output view tag mismatch after round trip")
	}
	if !bytes.Equal(decoded.Extra, prefix.Extra) {
		t.Error("extra field mismatch after round trip")
	}
}

func TestTxPrefixRoundTripCoinbase(t *testing.T) {
	var outKey [32]byte
	prefix := TxPrefix{
		Version:    2,
		UnlockTime: 100,
		Inputs:     []TxInput{{Gen: &TxInGen{Height: 123456}}},
		Outputs:    []TxOut{{Amount: 600000000, Key: outKey}},
		Extra:      nil,
	}
	enc, err := AppendTxPrefix(nil, prefix)
	if err != nil {
		t.Fatalf("AppendTxPrefix: %v", err)
	}
	decoded, _, err := DecodeTxPrefix(enc)
	if err != nil {
		t.Fatalf("DecodeTxPrefix: %v", err)
	}
	if decoded.Inputs[0].Gen == nil || decoded.Inputs[0].Gen.Height != 123456 {
		t.Error("coinbase height mismatch after round trip")
	}
	if decoded.Outputs[0].Amount != 600000000 {
		t.Error("coinbase output amount mismatch after round trip")
	}
}

func TestAppendRCTBaseOmitsFeeForCoinbase(t *testing.T) {
	withFee := AppendRCTBase(nil, RCTBase{RCTType: 6, Fee: 1000})
	if len(withFee) == 1 {
		t.Error("a non-coinbase RCT base must include the fee varint")
	}
	coinbase := AppendRCTBase(nil, RCTBase{RCTType: 6, IsCoinbase: true})
	if len(coinbase) != 1 {
		t.Errorf("a coinbase RCT base should be exactly the type byte, got %d bytes", len(coinbase))
	}
}

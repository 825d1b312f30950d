package xmontgomery

import "testing"

func TestScalarMultSalviumDeterministic(t *testing.T) {
	var scalar [32]byte
	scalar[0] = 0x42
	a := ScalarMultSalvium(scalar, BasePoint)
	b := ScalarMultSalvium(scalar, BasePoint)
	if a != b {
		t.Error("ScalarMultSalvium should be deterministic")
	}
}

func TestScalarMultSalviumDiffersFromStandard(t *testing.T) {
	var scalar [32]byte
	scalar[0] = 0x05
	scalar[31] = 0xff // bits 0-2 (0x05) are kept by Salvium clamping, cleared by RFC 7748

	salvium := ScalarMultSalvium(scalar, BasePoint)
	standard := ScalarMultStandard(scalar, BasePoint)
	if salvium == standard {
		t.Error("Salvium and RFC 7748 clamping should diverge for a scalar with low bits 0-2 set")
	}
}

func TestDHSharedSecretAgreement(t *testing.T) {
	var aScalar, bScalar [32]byte
	aScalar[0], aScalar[5] = 0x11, 0x22
	bScalar[0], bScalar[5] = 0x33, 0x44

	aPublic := ScalarMultSalvium(aScalar, BasePoint)
	bPublic := ScalarMultSalvium(bScalar, BasePoint)

	sharedA := ScalarMultSalvium(aScalar, bPublic)
	sharedB := ScalarMultSalvium(bScalar, aPublic)

	if sharedA != sharedB {
		t.Error("both sides of a Diffie-Hellman exchange must derive the same shared secret")
	}
}

// Package carrot implements the CARROT key-derivation tree, output
// construction, and output scanning: the Salvium wallet-protocol
// evolution replacing legacy CryptoNote derivation with domain-
// separated transcripts, X25519 ECDH, and a dual-generator (G, T)
// spend key.
package carrot

import (
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xscalar"
	"github.com/mxhess/salvium-core/xtranscript"
)

// AccountKeys holds the nine 32-byte keys an account master secret
// derives via disjoint domain strings, plus the public keys they open.
type AccountKeys struct {
	KGI  xscalar.Sc // generate-image: key-image authority
	KPS  xscalar.Sc // prove-spend: the T-component of the spend key
	KV   [32]byte   // view root, parent of KVI/KVB below
	KVI  xscalar.Sc // view-incoming: scans externally-sent outputs
	KVB  xscalar.Sc // view-balance: scans self-sends/coinbase outputs
	KGAI xscalar.Sc // generate-address-incoming: subaddress G offset
	KGAS xscalar.Sc // generate-address-spend: subaddress T offset
	SSR  [32]byte   // sender-receiver base secret
	SAmt [32]byte   // amount-blinding base secret

	SpendPublic xedwards.Point // K_s = KGI*G + KPS*T
	ViewPublic  xedwards.Point // main-address view pubkey = KVI*G
}

// NewAccount derives a full CARROT account from a master seed. The
// seed is typically itself derived from a mnemonic or hardware-wallet
// root key elsewhere in the wallet stack; this package starts from the
// seed bytes only.
func NewAccount(seed []byte) *AccountKeys {
	acc := &AccountKeys{
		KGI:  xtranscript.HScalar(nil, "Carrot generate image", seed),
		KPS:  xtranscript.HScalar(nil, "Carrot prove spend", seed),
		KV:   xtranscript.H32(nil, "Carrot view root", seed),
		KGAI: xtranscript.HScalar(nil, "Carrot generate address incoming", seed),
		KGAS: xtranscript.HScalar(nil, "Carrot generate address spend", seed),
		SSR:  xtranscript.H32(nil, "Carrot sender receiver base", seed),
		SAmt: xtranscript.H32(nil, "Carrot amount base", seed),
	}
	acc.KVI = xtranscript.HScalar(acc.KV[:], "Carrot view incoming", seed)
	acc.KVB = xtranscript.HScalar(acc.KV[:], "Carrot view balance", seed)

	acc.SpendPublic = xedwards.ScalarMultBase(acc.KGI).Add(xedwards.GeneratorT.ScalarMult(acc.KPS))
	acc.ViewPublic = xedwards.ScalarMultBase(acc.KVI)
	return acc
}

// Address is a (major, minor)-indexed spend/view public key pair.
// Major == 0 && Minor == 0 is the account's main address.
type Address struct {
	Major, Minor uint32
	SpendPublic  xedwards.Point
	ViewPublic   xedwards.Point
}

// IsMain reports whether addr is the account's main (non-subaddress)
// address.
func (a Address) IsMain() bool { return a.Major == 0 && a.Minor == 0 }

// MainAddress returns the account's primary address.
func (acc *AccountKeys) MainAddress() Address {
	return Address{SpendPublic: acc.SpendPublic, ViewPublic: acc.ViewPublic}
}

// Subaddress derives the (major, minor) subaddress, generalizing to
// the main address when both indices are zero. Per the key-tree
// spec, the spend-side offset is added on both G and T, while the
// view public key is simply KVI applied to the subaddress's own
// spend key rather than a second additive offset.
func (acc *AccountKeys) Subaddress(major, minor uint32) Address {
	if major == 0 && minor == 0 {
		return acc.MainAddress()
	}
	kgas := acc.KGAS.Bytes()
	secret := xtranscript.H32(kgas[:], "Carrot subaddress secret", encodeU32(major), encodeU32(minor))
	offsetG := xtranscript.HScalar(secret[:], "Carrot subaddress offset G", encodeU32(major), encodeU32(minor))
	offsetT := xtranscript.HScalar(secret[:], "Carrot subaddress offset T", encodeU32(major), encodeU32(minor))

	spend := acc.SpendPublic.Add(xedwards.ScalarMultBase(offsetG)).Add(xedwards.GeneratorT.ScalarMult(offsetT))
	view := spend.ScalarMult(acc.KVI)
	return Address{Major: major, Minor: minor, SpendPublic: spend, ViewPublic: view}
}

func encodeU32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func encodeU64(v uint64) []byte {
	return []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
}

package txbuilder

import (
	"github.com/mxhess/salvium-core/cryptonote"
)

// Serialize renders the fully assembled transaction as wire bytes:
// prefix, RCT base, per-input signature (CLSAG or T-CLSAG, whichever
// the input needed), the aggregated Bulletproof+ proof, per-output
// ecdh amount blobs, and the Salvium tail, in that order — matching
// §6's `prefix || ... || Salvium tail` layout with the RingCT payload
// filling the gap between the prefix's `extra` field and the tail.
func (tx *BuiltTransaction) Serialize() ([]byte, error) {
	out, err := cryptonote.AppendTxPrefix(nil, tx.Prefix)
	if err != nil {
		return nil, err
	}

	out = cryptonote.AppendRCTBase(out, tx.RCTBase)

	for _, in := range tx.Inputs {
		if in.TCLSAG != nil {
			out = cryptonote.AppendTCLSAG(out, in.TCLSAG)
		} else {
			out = cryptonote.AppendCLSAG(out, in.CLSAG)
		}
	}

	out = cryptonote.AppendBulletproofPlus(out, tx.Bulletproof)

	for _, enc := range tx.EcdhAmounts {
		out = cryptonote.AppendEcdhAmount(out, enc)
	}

	out = appendSalviumTail(out, tx.Tail)
	return out, nil
}

// appendSalviumTail serializes the Salvium-specific tail fields (tx_type,
// amount_burnt, source/destination asset_type, slippage limit, STAKE's
// protocol_tx_data, return_address list) using the same varint/length-
// prefix idiom the rest of the wire format uses; no documented byte
// layout for this tail exists, so this ordering is this package's own.
func appendSalviumTail(dst []byte, tail SalviumTail) []byte {
	dst = append(dst, byte(tail.TxType))
	dst = cryptonote.AppendVarint(dst, tail.AmountBurnt)
	dst = appendAssetType(dst, tail.SourceAsset)
	dst = appendAssetType(dst, tail.DestinationAsset)
	dst = cryptonote.AppendVarint(dst, tail.SlippageLimit)
	dst = cryptonote.AppendVarint(dst, uint64(len(tail.ProtocolTxData)))
	dst = append(dst, tail.ProtocolTxData...)
	dst = cryptonote.AppendVarint(dst, uint64(len(tail.ReturnAddresses)))
	for _, addr := range tail.ReturnAddresses {
		dst = append(dst, addr[:]...)
	}
	return dst
}

func appendAssetType(dst []byte, a AssetType) []byte {
	dst = cryptonote.AppendVarint(dst, uint64(len(a)))
	return append(dst, []byte(a)...)
}

// Package txbuilder assembles a spendable transaction from selected
// UTXOs and target outputs: UTXO selection, ring construction, CARROT
// output construction (legacy outputs are not built), Bulletproof+
// assembly, a CLSAG or
// T-CLSAG per input, and the Salvium-specific tail fields, serialized
// per the cryptonote wire layout.
package txbuilder

import (
	"github.com/mxhess/salvium-core/carrot"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xscalar"
)

// AssetType identifies which of Salvium's supported assets a value is
// denominated in (its native coin, or one of the stablecoin/synthetic
// assets a CONVERT transaction trades against).
type AssetType string

// TxType distinguishes the Salvium-specific transaction shapes the tail
// fields describe.
type TxType byte

const (
	TxTypeTransfer TxType = iota
	TxTypeConvert
	TxTypeStake
	TxTypeBurn
)

// SpendableOutput is a UTXO the builder may choose to spend: an owned
// output plus everything needed to place it in a ring and prove
// ownership of it.
type SpendableOutput struct {
	KeyImage     xedwards.Point
	OneTimeKey   xedwards.Point
	Commitment   xedwards.Point
	Amount       uint64
	Mask         xscalar.Sc // commitment blinding factor
	SpendScalar  xscalar.Sc // CARROT: k_gi + k_o^G; legacy: b + H_s
	TOpening     xscalar.Sc // CARROT only: the T-generator opening k_o^T; zero for legacy
	IsCarrot     bool
	GlobalIndex  uint64 // position in the global output set, for ring construction
	Sequence     uint64 // receipt order, for the FIFO selection strategy
	Asset        AssetType
}

// Destination is one payment target: where, how much, and in which
// asset.
type Destination struct {
	Address carrot.Address
	Amount  uint64
	Asset   AssetType
}

// SalviumTail carries the protocol fields beyond the plain CryptoNote
// prefix: burn accounting, the asset pair for CONVERT trades, stake
// protocol data, and any return addresses a refund path needs.
type SalviumTail struct {
	TxType            TxType
	AmountBurnt       uint64
	SourceAsset       AssetType
	DestinationAsset  AssetType
	SlippageLimit     uint64
	ProtocolTxData    []byte // opaque, STAKE-specific payload
	ReturnAddresses   [][32]byte
}

// DecoySource supplies ring decoys: given a count and the asset being
// spent, it returns that many candidate (global_index, one_time_key,
// commitment) tuples drawn from the chain, excluding the real output.
// The wallet core never picks its own decoys; this is always satisfied
// by a daemon RPC call or equivalent external data source.
type DecoySource interface {
	GetOuts(asset AssetType, count int, exclude uint64) ([]RingCandidate, error)
}

// RingCandidate is one potential ring member as returned by a
// DecoySource.
type RingCandidate struct {
	GlobalIndex uint64
	OneTimeKey  xedwards.Point
	Commitment  xedwards.Point
}

// SelectionStrategy picks which UTXOs to spend.
type SelectionStrategy byte

const (
	SelectLargestFirst SelectionStrategy = iota
	SelectSmallestFirst
	SelectRandom
	SelectFIFO
)

// FeePriority selects the per-byte fee multiplier tier.
type FeePriority byte

const (
	PriorityLow FeePriority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

var feeMultiplier = map[FeePriority]uint64{
	PriorityLow:    1,
	PriorityMedium: 5,
	PriorityHigh:   25,
	PriorityUrgent: 1000,
}

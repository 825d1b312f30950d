// Package walletcfg holds the wallet-crypto side's configuration surface:
// network selection, ring signature parameters, and fee policy, validated
// the same way randomx.Config validates its own fields.
package walletcfg

import (
	"errors"
	"fmt"
)

// Network selects which chain parameters a wallet operates under.
type Network byte

const (
	NetworkMainnet Network = iota
	NetworkTestnet
	NetworkStagenet
)

// RCTType identifies the ring confidential transaction protocol version an
// output or transaction uses, matching the rct_type byte on the wire (spec
// §6).
type RCTType byte

const (
	RCTTypeNull        RCTType = 0
	RCTTypeFull        RCTType = 1
	RCTTypeSimple      RCTType = 2
	RCTTypeBulletproof RCTType = 3
	RCTTypeCLSAG       RCTType = 5
	RCTTypeSalviumOne  RCTType = 6 // T-CLSAG, carries the Salvium tail
)

// FeePriority mirrors txbuilder.FeePriority; kept as its own type here so
// walletcfg has no dependency on txbuilder.
type FeePriority byte

const (
	FeePriorityLow FeePriority = iota + 1
	FeePriorityMedium
	FeePriorityHigh
	FeePriorityUrgent
)

// WalletConfig is the configuration a wallet session validates once at
// startup and then treats as read-only for the session's lifetime.
type WalletConfig struct {
	// Network selects mainnet/testnet/stagenet address and fee parameters.
	Network Network

	// RCTType is the ring confidential transaction protocol version this
	// wallet builds transactions under.
	RCTType RCTType

	// RingSize is the number of ring members (real + decoys) per input.
	// Must be at least 2 to provide any ambiguity.
	RingSize int

	// FeePriority is the default fee tier new transactions use unless a
	// caller overrides it per-transaction.
	FeePriority FeePriority

	// HFVersion is the hard-fork / protocol version the wallet assumes is
	// active, gating which RCTType and tx fields are valid to build.
	HFVersion uint8
}

// Validate checks that the configuration describes a buildable, coherent
// wallet session.
func (c *WalletConfig) Validate() error {
	if c.Network != NetworkMainnet && c.Network != NetworkTestnet && c.Network != NetworkStagenet {
		return fmt.Errorf("walletcfg: invalid network: %v", c.Network)
	}

	if c.RingSize < 2 {
		return errors.New("walletcfg: ring size must be at least 2")
	}

	switch c.FeePriority {
	case FeePriorityLow, FeePriorityMedium, FeePriorityHigh, FeePriorityUrgent:
	default:
		return fmt.Errorf("walletcfg: invalid fee priority: %v", c.FeePriority)
	}

	switch c.RCTType {
	case RCTTypeBulletproof, RCTTypeCLSAG, RCTTypeSalviumOne:
	default:
		return fmt.Errorf("walletcfg: rct type %v is not buildable by this wallet", c.RCTType)
	}

	if c.RCTType == RCTTypeSalviumOne && c.HFVersion < 1 {
		return errors.New("walletcfg: salvium-one rct type requires a post-genesis hard fork version")
	}

	return nil
}

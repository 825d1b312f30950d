package walletcfg

import "testing"

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	c := WalletConfig{
		Network:     NetworkMainnet,
		RCTType:     RCTTypeCLSAG,
		RingSize:    16,
		FeePriority: FeePriorityMedium,
		HFVersion:   3,
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected a valid config to pass, got %v", err)
	}
}

func TestValidateRejectsSmallRingSize(t *testing.T) {
	c := WalletConfig{
		Network:     NetworkMainnet,
		RCTType:     RCTTypeCLSAG,
		RingSize:    1,
		FeePriority: FeePriorityLow,
	}
	if err := c.Validate(); err == nil {
		t.Error("expected an error for a ring size below 2")
	}
}

func TestValidateRejectsUnknownFeePriority(t *testing.T) {
	c := WalletConfig{
		Network:     NetworkMainnet,
		RCTType:     RCTTypeCLSAG,
		RingSize:    11,
		FeePriority: FeePriority(99),
	}
	if err := c.Validate(); err == nil {
		t.Error("expected an error for an unrecognised fee priority")
	}
}

func TestValidateRejectsSalviumOneWithoutHardFork(t *testing.T) {
	c := WalletConfig{
		Network:     NetworkMainnet,
		RCTType:     RCTTypeSalviumOne,
		RingSize:    11,
		FeePriority: FeePriorityLow,
		HFVersion:   0,
	}
	if err := c.Validate(); err == nil {
		t.Error("expected an error for salvium-one rct type without a hard fork version")
	}
}

func TestValidateRejectsNullRCTType(t *testing.T) {
	c := WalletConfig{
		Network:     NetworkMainnet,
		RCTType:     RCTTypeNull,
		RingSize:    11,
		FeePriority: FeePriorityLow,
	}
	if err := c.Validate(); err == nil {
		t.Error("expected an error for an unbuildable rct type")
	}
}

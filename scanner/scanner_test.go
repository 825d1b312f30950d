package scanner

import (
	"testing"

	"github.com/mxhess/salvium-core/carrot"
	"github.com/mxhess/salvium-core/cryptonote"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xscalar"
)

func TestStoreInsertAndBalance(t *testing.T) {
	store := NewStore()
	var ki1, ki2 [32]byte
	ki1[0] = 1
	ki2[0] = 2

	store.Insert(&Record{Amount: 100, KeyImage: pointFromSeed(ki1)})
	store.Insert(&Record{Amount: 50, KeyImage: pointFromSeed(ki2)})

	if got := store.Balance(); got != 150 {
		t.Errorf("balance = %d, want 150", got)
	}
	if len(store.All()) != 2 {
		t.Errorf("expected 2 records, got %d", len(store.All()))
	}
}

func TestStoreMarkSpent(t *testing.T) {
	store := NewStore()
	var ki [32]byte
	ki[0] = 9
	p := pointFromSeed(ki)
	store.Insert(&Record{Amount: 75, KeyImage: p})

	if store.Balance() != 75 {
		t.Fatalf("expected balance 75 before spend")
	}
	if !store.MarkSpent(p) {
		t.Fatal("MarkSpent should find the inserted record")
	}
	if store.Balance() != 0 {
		t.Errorf("spent output should not count toward balance, got %d", store.Balance())
	}
}

func TestStoreMarkSpentUnknownKeyImage(t *testing.T) {
	store := NewStore()
	var ki [32]byte
	if store.MarkSpent(pointFromSeed(ki)) {
		t.Error("MarkSpent on an empty store should report not found")
	}
}

func TestSubaddressMapResolvesMainAndSub(t *testing.T) {
	acc := carrot.NewAccount([]byte("scanner map seed"))
	main := acc.MainAddress()
	sub := acc.Subaddress(3, 4)

	m := NewSubaddressMap(main)
	m.Add(sub)

	if major, minor, ok := m.Lookup(main.SpendPublic.Compress()); !ok || major != 0 || minor != 0 {
		t.Errorf("main address lookup = (%d,%d,%v), want (0,0,true)", major, minor, ok)
	}
	if major, minor, ok := m.Lookup(sub.SpendPublic.Compress()); !ok || major != 3 || minor != 4 {
		t.Errorf("subaddress lookup = (%d,%d,%v), want (3,4,true)", major, minor, ok)
	}
}

func TestSessionScanBlockRecognizesCarrotOutput(t *testing.T) {
	acc := carrot.NewAccount([]byte("session seed"))
	main := acc.MainAddress()
	subs := NewSubaddressMap(main)
	store := NewStore()

	var keyImage [32]byte
	keyImage[0] = 0x11
	ctx := carrot.InputContextRingCT(keyImage)
	enote, _, err := carrot.BuildOutput(carrot.BuildOutputParams{
		Recipient:    main,
		Amount:       1234,
		InputContext: ctx,
		EnoteType:    carrot.EnoteTypePayment,
	})
	if err != nil {
		t.Fatalf("BuildOutput: %v", err)
	}

	session := &Session{Account: acc, Subaddresses: subs, Store: store}
	var txID [32]byte
	session.ScanBlock(Block{
		Height: 1,
		Carrot: []CarrotCandidate{{TxID: txID, OutputIndex: 0, Enote: enote}},
	})

	if store.Balance() != 1234 {
		t.Errorf("balance after scan = %d, want 1234", store.Balance())
	}
}

func TestSessionScanBlockRecognizesLegacyOutput(t *testing.T) {
	viewSecret, err := xscalar.Random()
	if err != nil {
		t.Fatalf("xscalar.Random: %v", err)
	}
	spendSecret, err := xscalar.Random()
	if err != nil {
		t.Fatalf("xscalar.Random: %v", err)
	}
	spendPublic := xedwards.ScalarMultBase(spendSecret)
	viewPublic := xedwards.ScalarMultBase(viewSecret)

	txSecret, err := xscalar.Random()
	if err != nil {
		t.Fatalf("xscalar.Random: %v", err)
	}
	txPubkey := xedwards.ScalarMultBase(txSecret)
	derivation := cryptonote.Derivation(txSecret, viewPublic)
	const outputIndex = 0
	outputKey := cryptonote.DeriveOutputPubkey(derivation, outputIndex, spendPublic)
	vt := cryptonote.ViewTag(derivation, outputIndex)

	acc := carrot.NewAccount([]byte("legacy session seed"))
	subs := NewSubaddressMap(acc.MainAddress())
	store := NewStore()
	session := &Session{
		Account:           acc,
		Subaddresses:      subs,
		Store:             store,
		LegacyViewSecret:  NewOptionalScalar(viewSecret),
		LegacySpendSecret: NewOptionalScalar(spendSecret),
	}

	var txID [32]byte
	session.ScanBlock(Block{
		Height: 2,
		Legacy: []LegacyCandidate{{
			TxID: txID, OutputIndex: outputIndex, TxPubkey: txPubkey,
			OutputKey: outputKey, ViewTag: vt, HasViewTag: true,
		}},
	})

	records := store.All()
	if len(records) != 1 {
		t.Fatalf("expected 1 legacy record, got %d", len(records))
	}
	if !records[0].IsLegacy {
		t.Error("recognized output should be flagged legacy")
	}
}

func TestSessionScanBlockSkipsLegacyWithoutSpendSecret(t *testing.T) {
	acc := carrot.NewAccount([]byte("view only seed"))
	subs := NewSubaddressMap(acc.MainAddress())
	store := NewStore()
	session := &Session{Account: acc, Subaddresses: subs, Store: store}

	var txID [32]byte
	session.ScanBlock(Block{
		Height: 3,
		Legacy: []LegacyCandidate{{TxID: txID, OutputIndex: 0}},
	})

	if len(store.All()) != 0 {
		t.Error("a view-only session has no legacy spend secret and should recognize nothing")
	}
}

func pointFromSeed(seed [32]byte) xedwards.Point {
	return xedwards.HashToPoint(seed[:])
}

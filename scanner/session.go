package scanner

import (
	log "github.com/sirupsen/logrus"

	"github.com/mxhess/salvium-core/carrot"
	"github.com/mxhess/salvium-core/cryptonote"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xscalar"
)

// OptionalScalar distinguishes an absent secret (view-only wallet) from
// the zero scalar, which is otherwise a perfectly valid key.
type OptionalScalar struct {
	value xscalar.Sc
	set   bool
}

// NewOptionalScalar wraps a known secret.
func NewOptionalScalar(s xscalar.Sc) OptionalScalar { return OptionalScalar{value: s, set: true} }

var globalLogger = log.New()

// SetLogger overrides the package-wide logger, so host applications can
// route scan activity into their own log sink.
func SetLogger(l *log.Logger) { globalLogger = l }

// CarrotCandidate is a CARROT output awaiting scan, alongside the
// chain-side bookkeeping (tx id, output index) the store records it
// under once owned.
type CarrotCandidate struct {
	TxID        [32]byte
	OutputIndex uint64
	Enote       *carrot.Enote
}

// LegacyCandidate is a pre-CARROT output awaiting scan.
type LegacyCandidate struct {
	TxID        [32]byte
	OutputIndex uint64
	TxPubkey    xedwards.Point
	OutputKey   xedwards.Point
	ViewTag     byte
	HasViewTag  bool
}

// Block bundles one block's worth of candidate outputs, already
// partitioned by enote layout (§4.11 step 1: CryptoNote vs CARROT,
// decided upstream from rct_type and the presence of a 3-byte view tag
// in the enote).
type Block struct {
	Height  uint64
	Carrot  []CarrotCandidate
	Legacy  []LegacyCandidate
}

// Session holds everything a scan loop needs across many blocks: the
// account being scanned against, its subaddress index, the output
// store, and the legacy view and spend secrets used for pre-CARROT
// outputs.
type Session struct {
	Account      *carrot.AccountKeys
	Subaddresses *SubaddressMap
	Store        *Store

	// LegacyViewSecret/LegacySpendSecret let a spend-capable wallet
	// also recognize pre-CARROT outputs sent to its legacy keys. When
	// LegacySpendSecret is unset, legacy candidates are skipped
	// entirely: no legacy output is recognized, with or without a key
	// image. CARROT key images always need the full KGI regardless.
	LegacyViewSecret  OptionalScalar
	LegacySpendSecret OptionalScalar
}

// ScanBlock runs every candidate in b through the appropriate
// derivation pipeline, inserting newly recognized outputs into the
// session's store. The CARROT candidates are scanned first, then the
// legacy ones, and the call returns only when both passes are done.
func (s *Session) ScanBlock(b Block) {
	owned := 0
	for _, c := range b.Carrot {
		if s.scanCarrotCandidate(b.Height, c) {
			owned++
		}
	}
	for _, c := range b.Legacy {
		if s.scanLegacyCandidate(b.Height, c) {
			owned++
		}
	}
	globalLogger.WithFields(log.Fields{
		"height":   b.Height,
		"carrot":   len(b.Carrot),
		"legacy":   len(b.Legacy),
		"owned":    owned,
	}).Debug("scanner: block scanned")
}

func (s *Session) scanCarrotCandidate(height uint64, c CarrotCandidate) bool {
	if out, err := carrot.TryScanExternal(s.Account, c.Enote, s.Subaddresses); err == nil {
		s.insertCarrot(c, out)
		return true
	}
	if out, err := carrot.TryScanInternal(s.Account, c.Enote, s.Subaddresses); err == nil {
		s.insertCarrot(c, out)
		return true
	}
	return false
}

func (s *Session) insertCarrot(c CarrotCandidate, out *carrot.OwnedOutput) {
	rec := &Record{
		TxID:        c.TxID,
		OutputIndex: c.OutputIndex,
		Ko:          out.Ko,
		Amount:      out.Amount,
		Mask:        out.Mask,
		Major:       out.Major,
		Minor:       out.Minor,
		EnoteType:   out.EnoteType,
		KeyImage:    carrot.KeyImage(s.Account, out),
	}
	s.Store.Insert(rec)
	globalLogger.WithFields(log.Fields{
		"tx":     rec.TxID,
		"index":  rec.OutputIndex,
		"amount": rec.Amount,
	}).Info("scanner: recognized CARROT output")
}

func (s *Session) scanLegacyCandidate(height uint64, c LegacyCandidate) bool {
	if !s.LegacySpendSecret.set {
		return false
	}
	out, err := cryptonote.TryScanLegacy(s.LegacyViewSecret.value, s.LegacySpendSecret.value, c.TxPubkey, c.OutputIndex, c.OutputKey, c.ViewTag, c.HasViewTag)
	if err != nil {
		return false
	}
	rec := &Record{
		TxID:        c.TxID,
		OutputIndex: c.OutputIndex,
		Ko:          out.OneTimeKey,
		IsLegacy:    true,
		KeyImage:    cryptonote.KeyImage(out),
	}
	s.Store.Insert(rec)
	globalLogger.WithFields(log.Fields{
		"tx":    rec.TxID,
		"index": rec.OutputIndex,
	}).Info("scanner: recognized legacy output")
	return true
}

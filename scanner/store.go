// Package scanner orchestrates output scanning across blocks: routing
// candidate outputs through the CARROT or legacy derivation pipeline,
// and holding the resulting owned outputs and subaddress index in the
// two append-only stores the wallet's scan session shares across
// workers.
package scanner

import (
	"sync"

	"github.com/mxhess/salvium-core/carrot"
	"github.com/mxhess/salvium-core/xedwards"
	"github.com/mxhess/salvium-core/xscalar"
)

// Record is one recognized output. Every field except IsSpent is fixed
// at insertion time; IsSpent is the store's only mutable field,
// toggled by batch key-image queries against the daemon.
type Record struct {
	TxID         [32]byte
	OutputIndex  uint64
	Ko           xedwards.Point
	Amount       uint64
	Mask         xscalar.Sc
	Major, Minor uint32
	EnoteType    carrot.EnoteType
	IsLegacy     bool
	KeyImage     xedwards.Point
	IsSpent      bool
}

// Store is the append-only OwnedOutput store: new records are only ever
// appended, and the one thing ever updated on an existing record is
// IsSpent. Safe for concurrent use by multiple scan workers.
type Store struct {
	mu      sync.Mutex
	records []*Record
	byImage map[[32]byte]*Record
}

// NewStore returns an empty output store.
func NewStore() *Store {
	return &Store{byImage: make(map[[32]byte]*Record)}
}

// Insert appends rec to the store. Safe to call concurrently.
func (s *Store) Insert(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	s.byImage[rec.KeyImage.Compress()] = rec
}

// All returns a snapshot of every record currently in the store.
func (s *Store) All() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// MarkSpent flips IsSpent for the record with the given key image, the
// only mutation this store ever performs on an existing record. It
// reports whether a matching record was found.
func (s *Store) MarkSpent(keyImage xedwards.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byImage[keyImage.Compress()]
	if !ok {
		return false
	}
	rec.IsSpent = true
	return true
}

// Balance sums the amount of every unspent record.
func (s *Store) Balance() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total uint64
	for _, rec := range s.records {
		if !rec.IsSpent {
			total += rec.Amount
		}
	}
	return total
}

// SubaddressMap implements carrot.SubaddressLookup over an append-only
// table of derived subaddress spend keys. Entries are added once, at
// derivation time, and never removed.
type SubaddressMap struct {
	mu      sync.RWMutex
	entries map[[32]byte]subaddressEntry
}

type subaddressEntry struct {
	major, minor uint32
}

// NewSubaddressMap returns an empty map seeded with the account's main
// address, since index (0, 0) is implicit and worth resolving like any
// other entry.
func NewSubaddressMap(main carrot.Address) *SubaddressMap {
	m := &SubaddressMap{entries: make(map[[32]byte]subaddressEntry)}
	m.Add(main)
	return m
}

// Add registers addr's spend public key so future scans can resolve it
// back to its (major, minor) index.
func (m *SubaddressMap) Add(addr carrot.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[addr.SpendPublic.Compress()] = subaddressEntry{major: addr.Major, minor: addr.Minor}
}

// Lookup implements carrot.SubaddressLookup.
func (m *SubaddressMap) Lookup(spendPublic [32]byte) (major, minor uint32, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[spendPublic]
	return e.major, e.minor, ok
}

package txbuilder

import (
	"sort"

	"github.com/mxhess/salvium-core/errs"
	"github.com/mxhess/salvium-core/ringsig"
)

// BuildRing assembles a ring of size ringSize for spending real: fetches
// ringSize-1 decoys from source (excluding real's global index), then
// sorts the combined set by global chain index ascending. The "real
// index placed randomly" requirement falls out of this naturally, since
// the decoys are themselves randomly drawn from the whole chain — the
// real member's rank among them is exactly as unpredictable as picking
// a random position directly, while also satisfying the ascending-order
// convention the key-offset delta encoding needs. It returns the sorted
// ring, the sorted global indices (same order, for key-offset encoding),
// and the secretIndex ringsig.Sign/TSign needs.
func BuildRing(source DecoySource, real SpendableOutput, ringSize int) ([]ringsig.RingMember, []uint64, int, error) {
	if ringSize < 1 {
		return nil, nil, 0, errs.ErrFatalConfiguration
	}
	decoys, err := source.GetOuts(real.Asset, ringSize-1, real.GlobalIndex)
	if err != nil {
		return nil, nil, 0, err
	}
	if len(decoys) != ringSize-1 {
		return nil, nil, 0, errs.ErrFatalConfiguration
	}

	type candidate struct {
		globalIndex uint64
		member      ringsig.RingMember
		isReal      bool
	}
	all := make([]candidate, 0, ringSize)
	all = append(all, candidate{
		globalIndex: real.GlobalIndex,
		member:      ringsig.RingMember{Pubkey: real.OneTimeKey, Commitment: real.Commitment},
		isReal:      true,
	})
	for _, d := range decoys {
		all = append(all, candidate{
			globalIndex: d.GlobalIndex,
			member:      ringsig.RingMember{Pubkey: d.OneTimeKey, Commitment: d.Commitment},
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].globalIndex < all[j].globalIndex })

	members := make([]ringsig.RingMember, ringSize)
	indices := make([]uint64, ringSize)
	realIndex := 0
	for i, c := range all {
		members[i] = c.member
		indices[i] = c.globalIndex
		if c.isReal {
			realIndex = i
		}
	}
	return members, indices, realIndex, nil
}

// DeltaEncodeOffsets converts ascending absolute global indices into
// the delta-encoded `varint(offset)×` sequence the txin_to_key wire
// format carries: the first offset is absolute, every later one is the
// difference from its predecessor.
func DeltaEncodeOffsets(sortedGlobalIndices []uint64) []uint64 {
	out := make([]uint64, len(sortedGlobalIndices))
	var prev uint64
	for i, idx := range sortedGlobalIndices {
		if i == 0 {
			out[i] = idx
		} else {
			out[i] = idx - prev
		}
		prev = idx
	}
	return out
}

package txbuilder

import (
	"crypto/rand"
	"math/big"
	"sort"

	"github.com/mxhess/salvium-core/errs"
)

// SelectUTXOs picks a subset of available (already filtered to a single
// asset) covering target plus the builder's running fee estimate,
// according to strategy. It never mutates available.
func SelectUTXOs(strategy SelectionStrategy, available []SpendableOutput, target uint64) ([]SpendableOutput, error) {
	pool := make([]SpendableOutput, len(available))
	copy(pool, available)

	switch strategy {
	case SelectLargestFirst:
		sort.Slice(pool, func(i, j int) bool { return pool[i].Amount > pool[j].Amount })
	case SelectSmallestFirst:
		sort.Slice(pool, func(i, j int) bool { return pool[i].Amount < pool[j].Amount })
	case SelectFIFO:
		sort.Slice(pool, func(i, j int) bool { return pool[i].Sequence < pool[j].Sequence })
	case SelectRandom:
		if err := shuffle(pool); err != nil {
			return nil, err
		}
	default:
		return nil, errs.ErrFatalConfiguration
	}

	var sum uint64
	var chosen []SpendableOutput
	for _, o := range pool {
		if sum >= target {
			break
		}
		chosen = append(chosen, o)
		sum += o.Amount
	}
	if sum < target {
		return nil, &errs.InsufficientFundsError{Needed: target, Available: sum}
	}
	return chosen, nil
}

func shuffle(s []SpendableOutput) error {
	for i := len(s) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := int(jBig.Int64())
		s[i], s[j] = s[j], s[i]
	}
	return nil
}

package sampling

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// Choice picks nChoose indices from 0..nFrom-1. Without replacement every
// index is picked at most once, so nChoose may not exceed nFrom. With
// lowDiscrepancy the indices are derived from a scrambled Halton sequence
// instead of independent draws, which spreads them more evenly.
func Choice(rng *rand.Rand, nChoose, nFrom int, replace, lowDiscrepancy bool) ([]int, error) {
	if nChoose <= 0 {
		return []int{}, nil
	}
	if nFrom <= 0 {
		return nil, fmt.Errorf("cannot choose %d values from an empty set", nChoose)
	}
	if !replace && nChoose > nFrom {
		return nil, fmt.Errorf("cannot choose %d values without replacement from %d", nChoose, nFrom)
	}

	if !lowDiscrepancy {
		if !replace {
			return rng.Perm(nFrom)[:nChoose], nil
		}
		idx := make([]int, nChoose)
		for i := range idx {
			idx[i] = rng.IntN(nFrom)
		}
		return idx, nil
	}

	if replace {
		unit := lowDiscrepancyUnit(rng, nChoose, 1)
		idx := make([]int, nChoose)
		for i, row := range unit {
			k := int(math.RoundToEven(row[0]*(float64(nFrom)-.01) - .5))
			idx[i] = min(max(k, 0), nFrom-1)
		}
		return idx, nil
	}

	// Ranking nFrom sequence values gives a permutation of 0..nFrom-1
	unit := lowDiscrepancyUnit(rng, nFrom, 1)
	order := make([]int, nFrom)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case unit[a][0] < unit[b][0]:
			return -1
		case unit[a][0] > unit[b][0]:
			return 1
		}
		return 0
	})
	return order[:nChoose], nil
}

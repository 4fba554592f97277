package operators

import (
	"math/rand/v2"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

// Selection picks parents from a population.
type Selection interface {
	// Select returns nSelect matings of nParents indices into pop.
	Select(rng *rand.Rand, pop []framework.Individual, nSelect, nParents int) [][]int
}

// RandomSelection draws parents from concatenated random permutations of the
// population, so every individual is used about equally often.
type RandomSelection struct{}

func (RandomSelection) Select(rng *rand.Rand, pop []framework.Individual, nSelect, nParents int) [][]int {
	n := nSelect * nParents
	idx := make([]int, 0, n+len(pop))
	for len(pop) > 0 && len(idx) < n {
		idx = append(idx, rng.Perm(len(pop))...)
	}
	matings := make([][]int, nSelect)
	for k := range matings {
		matings[k] = idx[k*nParents : (k+1)*nParents : (k+1)*nParents]
	}
	return matings
}

// TournamentSelection picks the best of Size random individuals for every
// parent, by non-domination rank first and crowding distance second.
type TournamentSelection struct {
	Size int
}

func (s TournamentSelection) Select(rng *rand.Rand, pop []framework.Individual, nSelect, nParents int) [][]int {
	size := max(s.Size, 2)
	matings := make([][]int, nSelect)
	for k := range matings {
		matings[k] = make([]int, nParents)
		for i := range matings[k] {
			best := rng.IntN(len(pop))
			for t := 1; t < size; t++ {
				contestant := rng.IntN(len(pop))
				c, b := pop[contestant], pop[best]
				if c.Rank < b.Rank || (c.Rank == b.Rank && c.Distance > b.Distance) {
					best = contestant
				}
			}
			matings[k][i] = best
		}
	}
	return matings
}

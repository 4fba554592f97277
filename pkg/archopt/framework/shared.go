package framework

// NonDominatedSort performs non-dominated sorting on the population. The rank
// of every individual is written back into population.
func NonDominatedSort(population []Individual) [][]Individual {
	objs := make([][]float64, len(population))
	for i := range population {
		objs[i] = population[i].Objectives
	}

	var fronts [][]Individual
	for rank, idx := range NonDominatedFronts(objs) {
		front := make([]Individual, len(idx))
		for k, i := range idx {
			population[i].Rank = rank
			front[k] = population[i]
		}
		fronts = append(fronts, front)
	}
	return fronts
}

// NonDominatedFronts splits the points into fronts of indices; the first
// front holds the non-dominated points.
func NonDominatedFronts(points [][]float64) [][]int {
	if len(points) == 0 {
		return nil
	}
	dominated := make([][]int, len(points))
	domCount := make([]int, len(points))

	// Calculate domination for each point
	for i := range points {
		for j := range points {
			if i == j {
				continue
			}
			if DominatesPoint(points[i], points[j]) {
				dominated[i] = append(dominated[i], j)
			} else if DominatesPoint(points[j], points[i]) {
				domCount[i]++
			}
		}
	}

	var current []int
	for i := range points {
		if domCount[i] == 0 {
			current = append(current, i)
		}
	}

	var fronts [][]int
	for len(current) > 0 {
		fronts = append(fronts, current)
		var next []int
		for _, i := range current {
			for _, j := range dominated[i] {
				domCount[j]--
				if domCount[j] == 0 {
					next = append(next, j)
				}
			}
		}
		current = next
	}
	return fronts
}

// Dominates checks if individual a dominates individual b
func Dominates(a, b Individual) bool {
	return DominatesPoint(a.Objectives, b.Objectives)
}

// DominatesPoint checks if objective vector a dominates b (minimization).
func DominatesPoint(a, b []float64) bool {
	better := false
	for i := 0; i < len(a); i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

package slim

// EvaluateFitness computes an individual's fitness as the product, over
// every mutation present in either genome copy, of that mutation's
// contribution: homozygotes (present in both copies) contribute
// (1 + s); heterozygotes (present in exactly one copy) contribute
// (1 + h*s), where h is the mutation type's dominance coefficient
// (§4.6). Null genomes contribute nothing and do not halve the
// contribution of the other copy's sites (§12's hemizygosity handling).
func EvaluateFitness(ind Individual) float64 {
	g1, g2 := ind.Genome1, ind.Genome2
	fitness := 1.0

	switch {
	case g1.Null && g2.Null:
		return fitness
	case g1.Null:
		for _, m := range g2.Mutations {
			fitness *= 1 + m.SelectionCoeff
		}
		return fitness
	case g2.Null:
		for _, m := range g1.Mutations {
			fitness *= 1 + m.SelectionCoeff
		}
		return fitness
	}

	// Duplicate mutations at the same position are matched pairwise
	// across the two genomes in stable (insertion) order before the
	// heterozygous contribution is applied to any unmatched remainder
	// (§4.6): taken tracks which g2 mutations have already been claimed
	// as a homozygous pair so a second, distinct mutation at the same
	// position with the same (type, s) isn't double-matched.
	taken := make([]bool, len(g2.Mutations))
	for _, m := range g1.Mutations {
		if j := g2.firstMatch(m, taken); j >= 0 {
			taken[j] = true
			if m.SelectionCoeff != 0 {
				fitness *= 1 + m.SelectionCoeff
			}
			continue
		}
		if m.SelectionCoeff != 0 {
			fitness *= 1 + m.Type.DominanceCoeff*m.SelectionCoeff
		}
	}
	for j, m := range g2.Mutations {
		if taken[j] || m.SelectionCoeff == 0 {
			continue
		}
		fitness *= 1 + m.Type.DominanceCoeff*m.SelectionCoeff
	}
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

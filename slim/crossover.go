package slim

import "sort"

// DrawGamete produces one recombinant, mutated gamete from the diploid
// pair (g1, g2). A single joint draw determines how many crossover
// breakpoints and new mutations occur this meiosis (§4.5 step 1, §9's
// single-uniform fast path), the breakpoints are drawn uniformly along
// the chromosome and a fraction of them promoted to gene-conversion
// tracts (§3.3, §4.5 step 2), and new mutations are placed by the
// chromosome's weighted element sampler (§4.5 step 3).
func DrawGamete(chrom *Chromosome, g1, g2 *Genome, rng RNGSource, generation, subpopID int) *Genome {
	nMut, nCross := chrom.DrawMutationAndCrossoverCounts(rng)

	var breakpoints []int
	for i := 0; i < nCross; i++ {
		bp := chrom.DrawPosition(rng)
		breakpoints = append(breakpoints, bp)
		if chrom.GeneConversionFraction > 0 && rng.Uniform() < chrom.GeneConversionFraction {
			tract := int(rng.Exponential(1/chrom.MeanTractLength)) + 1
			end := bp + tract
			if end > chrom.Length {
				end = chrom.Length
			}
			if end > bp {
				breakpoints = append(breakpoints, end)
			}
		}
	}
	sort.Ints(breakpoints)

	// activeStrand reports which parental genome (0 = g1, 1 = g2) is
	// contributing at position pos, given the breakpoints crossed so
	// far counting from the chromosome's start. A gene-conversion tract
	// is just a matched pair of breakpoints that flips the strand and
	// flips it back.
	activeStrand := func(pos int) int {
		crossed := 0
		for _, bp := range breakpoints {
			if pos >= bp {
				crossed++
			} else {
				break
			}
		}
		return crossed % 2
	}

	out := NewGenome()
	for _, m := range g1.Mutations {
		if activeStrand(m.Position) == 0 {
			out.Mutations = append(out.Mutations, m)
		}
	}
	for _, m := range g2.Mutations {
		if activeStrand(m.Position) == 1 {
			out.Mutations = append(out.Mutations, m)
		}
	}
	sort.Slice(out.Mutations, func(i, j int) bool { return out.Mutations[i].Position < out.Mutations[j].Position })

	for i := 0; i < nMut; i++ {
		elem, pos, ok := chrom.DrawMutationPosition(rng)
		if !ok {
			continue // no genomic elements at all: no mutation source anywhere
		}
		mt := elem.Type.DrawMutationType(rng)
		m := NewMutation(mt, pos, generation, subpopID, rng)
		out.AddMutation(m)
	}
	return out
}

package slim

import (
	"math"
	"sort"
)

// Chromosome is the fixed physical map new genomes are drawn against: an
// ordered, non-overlapping tiling of GenomicElements, a single per-base
// mutation rate, and a single per-base recombination rate used by the
// crossover kernel. Both rates are uniform along the whole chromosome;
// there are no per-region rate maps.
//
// Elements are validated as sorted and non-overlapping eagerly at
// construction time rather than lazily on each access, following the
// original implementation's chromosome-construction invariant rather
// than the distilled spec's silence on when the check happens.
type Chromosome struct {
	Length       int
	Elements     []GenomicElement
	MutationRate float64 // per base pair per generation
	RecombRate   float64 // per base pair per generation

	// GeneConversionFraction is the probability that a given crossover
	// breakpoint is instead resolved as a gene-conversion tract; zero
	// disables gene conversion entirely (§3.3, §4.5 step 2).
	GeneConversionFraction float64
	// MeanTractLength is the mean of the geometric tract-length
	// distribution a gene-conversion event draws from.
	MeanTractLength float64

	// expectedMutationsPerMeiosis and expectedCrossoversPerMeiosis are
	// the mutation and recombination rates times the chromosome length:
	// the Poisson means of the crossover-mutation kernel's draws (§4.5).
	// DrawMutationAndCrossoverCounts computes exp(-mean) from them on
	// each call.
	expectedMutationsPerMeiosis  float64
	expectedCrossoversPerMeiosis float64

	// elementWeights holds, for each entry in Elements at the same
	// index, its share of the chromosome's total mutation weight (its
	// length, since the mutation rate here is uniform across the
	// chromosome): the precomputed discrete sampler §4.5's
	// initialization step calls for, selecting which element a new
	// mutation lands in before a uniform draw picks its position inside
	// that element.
	elementWeights []float64
}

// NewChromosome validates elems and builds a Chromosome.
func NewChromosome(length int, elems []GenomicElement, mutationRate, recombRate float64) (*Chromosome, error) {
	if length <= 0 {
		return nil, simErrf("chromosome length must be positive, got %d", length)
	}
	if mutationRate < 0 || recombRate < 0 {
		return nil, simErrf("mutation and recombination rates must be non-negative")
	}
	sorted := append([]GenomicElement{}, elems...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i, e := range sorted {
		if e.Start < 0 || e.End >= length || e.Start > e.End {
			return nil, simErrf("genomic element %d has invalid bounds [%d, %d] for chromosome length %d", i, e.Start, e.End, length)
		}
		if i > 0 && e.Start <= sorted[i-1].End {
			return nil, simErrf("genomic elements %d and %d overlap", i-1, i)
		}
	}
	weights := make([]float64, len(sorted))
	for i, e := range sorted {
		weights[i] = float64(e.End - e.Start + 1)
	}
	return &Chromosome{
		Length:                       length,
		Elements:                     sorted,
		MutationRate:                 mutationRate,
		RecombRate:                   recombRate,
		expectedMutationsPerMeiosis:  mutationRate * float64(length),
		expectedCrossoversPerMeiosis: recombRate * float64(length),
		elementWeights:               weights,
	}, nil
}

// SetGeneConversion enables gene conversion on c: a fraction of
// crossover breakpoints are instead promoted to a gene-conversion tract
// of geometrically distributed length with the given mean (§3.3, §4.5
// step 2). fraction must be in [0, 1] and meanTractLength must be
// positive whenever fraction is nonzero.
func (c *Chromosome) SetGeneConversion(fraction, meanTractLength float64) error {
	if fraction < 0 || fraction > 1 {
		return simErrf("gene conversion fraction must be in [0, 1], got %g", fraction)
	}
	if fraction > 0 && meanTractLength <= 0 {
		return simErrf("gene conversion mean tract length must be positive, got %g", meanTractLength)
	}
	c.GeneConversionFraction = fraction
	c.MeanTractLength = meanTractLength
	return nil
}

// ElementAt returns the genomic element covering pos, or false if pos
// falls in an unannotated gap (gaps never mutate and never recombine
// specially; they simply have no element-type-driven mutation source).
func (c *Chromosome) ElementAt(pos int) (GenomicElement, bool) {
	// Elements are sorted and non-overlapping; a linear scan is fine at
	// the element counts real chromosome models use, and keeps this
	// correct without needing a binary-search edge case for gaps.
	for _, e := range c.Elements {
		if e.contains(pos) {
			return e, true
		}
	}
	return GenomicElement{}, false
}

// DrawMutationCount draws the number of new mutations to place during
// one meiosis from a Poisson distribution with the chromosome's total
// expected mutation count.
func (c *Chromosome) DrawMutationCount(rng RNGSource) int {
	return rng.Poisson(c.expectedMutationsPerMeiosis)
}

// DrawCrossoverCount draws the number of crossover breakpoints to place
// during one meiosis.
func (c *Chromosome) DrawCrossoverCount(rng RNGSource) int {
	return rng.Poisson(c.expectedCrossoversPerMeiosis)
}

// DrawPosition draws a uniformly distributed base position in
// [0, Length), the recombination-breakpoint sampler. The chromosome
// carries a single recombination rate rather than a per-region map, so
// its "weighted sampler over recombination intervals" (§4.5's
// initialization step) degenerates to one interval spanning the whole
// chromosome.
func (c *Chromosome) DrawPosition(rng RNGSource) int {
	return rng.IntN(c.Length)
}

// DrawMutationPosition selects a genomic element weighted by its share
// of the chromosome's total mutation weight, then a uniform position
// within that element's span (§4.5 step 3). It returns false if the
// chromosome has no genomic elements at all.
func (c *Chromosome) DrawMutationPosition(rng RNGSource) (GenomicElement, int, bool) {
	if len(c.Elements) == 0 {
		return GenomicElement{}, 0, false
	}
	i := rng.WeightedChoice(c.elementWeights)
	e := c.Elements[i]
	pos := e.Start + rng.IntN(e.End-e.Start+1)
	return e, pos, true
}

// DrawMutationAndCrossoverCounts draws the joint (k_mu, k_r) mutation
// and breakpoint counts for one meiosis (§4.5 step 1, §9's "joint
// Poisson fast path"): with probability exp(-(mu+r)) both are zero;
// otherwise a single uniform draw selects which of the three remaining
// cases applies, and each nonzero count is drawn from a Poisson
// distribution truncated to exclude zero.
func (c *Chromosome) DrawMutationAndCrossoverCounts(rng RNGSource) (kMu, kR int) {
	pMuZero := math.Exp(-c.expectedMutationsPerMeiosis)
	pRZero := math.Exp(-c.expectedCrossoversPerMeiosis)
	jointZero := pMuZero * pRZero
	if rng.Uniform() < jointZero {
		return 0, 0
	}
	pMuOnly := (1 - pMuZero) * pRZero
	pROnly := pMuZero * (1 - pRZero)
	u := rng.Uniform() * (1 - jointZero)
	switch {
	case u < pMuOnly:
		return c.drawNonzeroPoisson(rng, c.expectedMutationsPerMeiosis), 0
	case u < pMuOnly+pROnly:
		return 0, c.drawNonzeroPoisson(rng, c.expectedCrossoversPerMeiosis)
	default:
		return c.drawNonzeroPoisson(rng, c.expectedMutationsPerMeiosis), c.drawNonzeroPoisson(rng, c.expectedCrossoversPerMeiosis)
	}
}

// drawNonzeroPoisson draws from a Poisson(lambda) distribution
// conditioned on being nonzero, by rejection: adequate for the modest
// lambda values this kernel ever sees (expected mutation/crossover
// counts per meiosis).
func (c *Chromosome) drawNonzeroPoisson(rng RNGSource, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	for {
		if k := rng.Poisson(lambda); k > 0 {
			return k
		}
	}
}

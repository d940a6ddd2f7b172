package slim

// Individual is one diploid organism: a pair of genome copies.
type Individual struct {
	Genome1 *Genome
	Genome2 *Genome
	Fitness float64
}

// MigrationRate pairs a source subpopulation id with the fraction of
// this subpopulation's offspring that should be drawn from migrant
// parents in that source each generation.
type MigrationRate struct {
	SourceID int
	Rate     float64
}

// Subpopulation is one deme: its current parental generation, the
// children generation being built during a life-cycle step, and the
// demographic parameters that govern how those children are drawn
// (§3.3, §4.5 step 0, §4.7).
type Subpopulation struct {
	ID    int
	Chromosome *Chromosome

	parents  []Individual
	children []Individual

	// SelfingFraction is the probability an offspring's two parents are
	// drawn as the same hermaphroditic individual rather than two
	// distinct individuals.
	SelfingFraction float64
	// CloningFraction is the probability an offspring is produced by
	// asexual cloning of a single parent (each child genome comes from one
	// of that parent's own genomes with no recombination partner and no
	// second-parent draw; new mutations can still arise) rather than
	// sexual reproduction. Added by this expansion (§12): zero by
	// default, so existing selfing-only configurations are unaffected.
	CloningFraction float64

	// Migration lists the sources this subpopulation draws migrant
	// parents from and at what rate.
	Migration []MigrationRate

	// TargetSize is the number of children to draw next generation;
	// defaults to the founding size but may be changed between
	// generations to model demographic events.
	TargetSize int
}

// NewSubpopulation allocates a subpopulation of the given initial size
// with empty, mutation-free founder genomes.
func NewSubpopulation(id int, chrom *Chromosome, size int) *Subpopulation {
	sp := &Subpopulation{ID: id, Chromosome: chrom, TargetSize: size}
	sp.parents = make([]Individual, size)
	for i := range sp.parents {
		sp.parents[i] = Individual{Genome1: NewGenome(), Genome2: NewGenome(), Fitness: 1}
	}
	return sp
}

// Size returns the number of individuals in the current parental
// generation.
func (sp *Subpopulation) Size() int { return len(sp.parents) }

// Parents returns the current parental generation, read-only.
func (sp *Subpopulation) Parents() []Individual { return sp.parents }

// Children returns the generation under construction, read-only.
func (sp *Subpopulation) Children() []Individual { return sp.children }

// BeginGeneration resets the children slice to hold targetSize
// not-yet-populated slots, ready for the crossover-mutation kernel to
// fill in during one life-cycle step.
func (sp *Subpopulation) BeginGeneration(targetSize int) {
	sp.children = make([]Individual, targetSize)
}

// SetChild installs ind as child i. Called by the per-generation life
// cycle once it has drawn and recombined that child's two gametes.
func (sp *Subpopulation) SetChild(i int, ind Individual) {
	sp.children[i] = ind
}

// AdvanceGeneration performs the children-become-parents swap discipline
// (§4.7): the just-built children generation becomes the new parental
// generation, and the children slice is cleared so nothing downstream
// can accidentally observe last generation's children as if they were
// still under construction.
func (sp *Subpopulation) AdvanceGeneration() {
	sp.parents = sp.children
	sp.children = nil
}

// PickParentIndex draws a single parent index from this subpopulation's
// current parental generation with probability proportional to fitness,
// the sampler every child-drawing step in the life cycle uses (§4.5
// step 0, §4.6).
func (sp *Subpopulation) PickParentIndex(rng RNGSource) int {
	weights := make([]float64, len(sp.parents))
	for i, ind := range sp.parents {
		weights[i] = ind.Fitness
	}
	return rng.WeightedChoice(weights)
}

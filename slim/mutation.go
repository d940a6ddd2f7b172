package slim

// Mutation is a single segregating site: a position on the chromosome, a
// reference to the MutationType it was drawn under, and the selection
// coefficient drawn for it when it arose. Mutations are immutable once
// created — a new allele at the same position is always a distinct
// Mutation value, never a mutated field on an existing one, so that two
// Genomes can safely share a pointer to the same Mutation.
type Mutation struct {
	ID                 int64
	Type               *MutationType
	Position           int
	SelectionCoeff     float64
	OriginGeneration   int
	OriginSubpopID     int
}

// NewMutation draws a selection coefficient from mt's distribution of
// fitness effects and allocates a new Mutation with the next global id.
func NewMutation(mt *MutationType, position, generation, subpopID int, rng RNGSource) *Mutation {
	return &Mutation{
		ID:               nextID(),
		Type:             mt,
		Position:         position,
		SelectionCoeff:   mt.DrawSelectionCoefficient(rng),
		OriginGeneration: generation,
		OriginSubpopID:   subpopID,
	}
}

// Substitution records a mutation that has fixed: reached frequency 1.0
// across every non-null genome in the population and been removed from
// per-genome storage (§3.3, §4.7's fixation scan).
type Substitution struct {
	Mutation   *Mutation
	FixedGeneration int
}

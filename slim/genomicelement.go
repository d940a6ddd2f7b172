package slim

// GenomicElementType describes a class of chromosome region: the
// mutation types that can occur within it and their relative rates of
// occurrence.
type GenomicElementType struct {
	ID            int
	MutationTypes []*MutationType
	// Proportions holds, for each entry in MutationTypes at the same
	// index, the relative rate at which that type occurs within regions
	// of this element type.
	Proportions []float64
}

// NewGenomicElementType validates and constructs a GenomicElementType.
func NewGenomicElementType(id int, types []*MutationType, proportions []float64) (*GenomicElementType, error) {
	if len(types) != len(proportions) {
		return nil, simErrf("genomic element type %d: %d mutation types but %d proportions", id, len(types), len(proportions))
	}
	if len(types) == 0 {
		return nil, simErrf("genomic element type %d: requires at least one mutation type", id)
	}
	for _, p := range proportions {
		if p < 0 {
			return nil, simErrf("genomic element type %d: proportions must be non-negative", id)
		}
	}
	return &GenomicElementType{
		ID:            id,
		MutationTypes: append([]*MutationType{}, types...),
		Proportions:   append([]float64{}, proportions...),
	}, nil
}

// DrawMutationType selects one of this element type's mutation types
// with probability proportional to its configured rate.
func (g *GenomicElementType) DrawMutationType(rng RNGSource) *MutationType {
	i := rng.WeightedChoice(g.Proportions)
	return g.MutationTypes[i]
}

// GenomicElement is one contiguous, closed [Start, End] region of the
// chromosome (both inclusive, matching the tiling invariant below)
// tagged with the GenomicElementType that governs mutations landing in
// it.
type GenomicElement struct {
	Type  *GenomicElementType
	Start int
	End   int // inclusive
}

func (e GenomicElement) contains(pos int) bool { return pos >= e.Start && pos <= e.End }

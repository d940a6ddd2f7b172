package slim

import "sort"

// Genome is one haploid chromosome copy: a sorted-by-position sequence
// of the mutations it carries. Null reports a hemizygous genome that
// carries no sites and is explicitly excluded from fitness evaluation
// and fixation scanning (§9's Ambiguity note, resolved per the original
// implementation's null-genome handling in `subpopulation.cpp`).
type Genome struct {
	ID        int64
	Mutations []*Mutation
	Null      bool
}

// NewGenome allocates an empty, non-null genome with the next global id.
func NewGenome() *Genome {
	return &Genome{ID: nextID()}
}

// NewNullGenome allocates a null (non-participating) genome, used to
// model hemizygosity on a sex chromosome.
func NewNullGenome() *Genome {
	return &Genome{ID: nextID(), Null: true}
}

// AddMutation inserts m in position order, matching the original's
// invariant that a genome's mutation list is always kept sorted so that
// intersection-style scans (fixation, fitness) never need to re-sort.
func (g *Genome) AddMutation(m *Mutation) {
	i := sort.Search(len(g.Mutations), func(i int) bool { return g.Mutations[i].Position >= m.Position })
	g.Mutations = append(g.Mutations, nil)
	copy(g.Mutations[i+1:], g.Mutations[i:])
	g.Mutations[i] = m
}

// Contains reports whether g carries a mutation with the same type,
// position, and selection coefficient as m, by value rather than
// pointer identity: an independently arisen mutation of a `fixed` DFE
// type can land at the same position with an identical coefficient and
// must still count as a match (§4.6, grounded on
// original_source/core/subpopulation.cpp's homozygote test).
func (g *Genome) Contains(m *Mutation) bool {
	return g.firstMatch(m, nil) >= 0
}

// firstMatch returns the index into g.Mutations of the first mutation
// that equals m by value and whose index is not marked used in taken
// (taken may be nil to consider every candidate), or -1 if none match.
func (g *Genome) firstMatch(m *Mutation, taken []bool) int {
	i := sort.Search(len(g.Mutations), func(i int) bool { return g.Mutations[i].Position >= m.Position })
	for j := i; j < len(g.Mutations) && g.Mutations[j].Position == m.Position; j++ {
		if taken != nil && taken[j] {
			continue
		}
		other := g.Mutations[j]
		if other.Type == m.Type && other.SelectionCoeff == m.SelectionCoeff {
			return j
		}
	}
	return -1
}

// Clone returns a shallow copy of g: the Mutation pointers are shared
// (mutations are immutable once created) but the slice is independent,
// so appending to one clone never affects another.
func (g *Genome) Clone() *Genome {
	c := &Genome{ID: nextID(), Null: g.Null}
	if len(g.Mutations) > 0 {
		c.Mutations = append([]*Mutation{}, g.Mutations...)
	}
	return c
}

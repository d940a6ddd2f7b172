package slim

import (
	"sort"

	"github.com/zephyrtronium/contains"
)

// Population owns every Subpopulation in the simulation, the fixed
// substitution registry of mutations that have gone to fixation, and the
// current generation counter (§3.3, §4.7).
type Population struct {
	Generation    int
	Subpops       map[int]*Subpopulation
	Substitutions []*Substitution
}

// NewPopulation builds an empty population starting at generation 0.
func NewPopulation() *Population {
	return &Population{Subpops: make(map[int]*Subpopulation)}
}

// AddSubpopulation registers sp, returning a SimulationError if a
// subpopulation with that id already exists.
func (p *Population) AddSubpopulation(sp *Subpopulation) error {
	if _, exists := p.Subpops[sp.ID]; exists {
		return simErrf("subpopulation %d already exists", sp.ID)
	}
	p.Subpops[sp.ID] = sp
	return nil
}

// SubpopIDs returns every registered subpopulation id in ascending
// order, for callers that need a deterministic iteration order (dump
// output, log messages).
func (p *Population) SubpopIDs() []int {
	ids := make([]int, 0, len(p.Subpops))
	for id := range p.Subpops {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// migrationSources resolves the full set of subpopulation ids that feed
// migrants into target, directly or transitively, without visiting any
// source twice. Mirrors the teacher's cycle-safe proto-graph walk in
// IsKindOf, built on the same contains.Set membership primitive, applied
// here to a migration graph instead of a prototype graph.
func (p *Population) migrationSources(target int) []int {
	visited := contains.Set{}
	visited.Add(uintptr(target))
	var sources []int
	queue := []int{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		sp, ok := p.Subpops[cur]
		if !ok {
			continue
		}
		for _, m := range sp.Migration {
			if visited.Add(uintptr(m.SourceID)) {
				sources = append(sources, m.SourceID)
				queue = append(queue, m.SourceID)
			}
		}
	}
	return sources
}

// scanFixations removes any mutation that has reached frequency 1.0
// among every non-null genome in the just-drawn children generation and
// records it as a Substitution (§4.7 step 5, §9). It runs before the
// parents/children swap, per §4.7's ordering, so it always measures the
// generation about to become current. Null genomes are skipped
// entirely, per the original implementation's hemizygosity handling
// (§12).
func (p *Population) scanFixations() {
	counts := make(map[*Mutation]int)
	total := 0
	for _, sp := range p.Subpops {
		for _, ind := range sp.children {
			for _, g := range []*Genome{ind.Genome1, ind.Genome2} {
				if g.Null {
					continue
				}
				total++
				for _, m := range g.Mutations {
					counts[m]++
				}
			}
		}
	}
	if total == 0 {
		return
	}
	var fixed []*Mutation
	for m, c := range counts {
		if c == total {
			fixed = append(fixed, m)
		}
	}
	if len(fixed) == 0 {
		return
	}
	fixedSet := make(map[*Mutation]bool, len(fixed))
	for _, m := range fixed {
		fixedSet[m] = true
		p.Substitutions = append(p.Substitutions, &Substitution{Mutation: m, FixedGeneration: p.Generation})
	}
	for _, sp := range p.Subpops {
		for i := range sp.children {
			for _, g := range []*Genome{sp.children[i].Genome1, sp.children[i].Genome2} {
				if g.Null || len(g.Mutations) == 0 {
					continue
				}
				kept := g.Mutations[:0]
				for _, m := range g.Mutations {
					if !fixedSet[m] {
						kept = append(kept, m)
					}
				}
				g.Mutations = kept
			}
		}
	}
}

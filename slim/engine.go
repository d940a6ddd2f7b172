package slim

import "github.com/slimcore/eidos/eidos/elog"

// LifecycleHooks lets an embedder interleave scripted behavior into the
// per-generation life cycle (§4.7) without this package needing to
// import the scripting engine, matching the bridge package's existing
// "eidos does not import slim" layering (§3.2, §9) extended one level
// further: slim does not import eidos either, and drives scripts only
// through this interface.
type LifecycleHooks interface {
	// RunEarly runs every script block registered for "early" at
	// generation g, in registration order (§4.7 step 1).
	RunEarly(g int) error
	// RunLate runs every script block registered for "late" at
	// generation g, in registration order (§4.7 step 4).
	RunLate(g int) error
	// MateChoice lets a script veto or redirect a candidate second
	// parent index drawn for subpopulation spID during sexual
	// reproduction (§4.7 step 3). ok is false to accept the candidate
	// unmodified.
	MateChoice(spID, firstParent, candidate int) (chosen int, ok bool)
	// ModifyChild lets a script reject a freshly drawn child, forcing
	// the caller to redraw it from scratch (§4.7 step 3). It reports
	// whether to accept the child as drawn.
	ModifyChild(spID int, child *Individual) bool
}

// Engine drives the per-generation life cycle over a Population using
// an injected RNGSource, the single entry point §6's process-level
// surface calls once per generation. Hooks is optional; a nil Hooks
// runs the life cycle with no scripted behavior at all.
type Engine struct {
	Population *Population
	RNG        RNGSource
	Hooks      LifecycleHooks
}

// NewEngine builds an Engine over pop using the given RNGSource. If rng
// is nil, the default math/rand-backed source seeded with 1 is used.
func NewEngine(pop *Population, rng RNGSource) *Engine {
	if rng == nil {
		rng = NewMathRandSource(1)
	}
	return &Engine{Population: pop, RNG: rng}
}

// SetSeed reseeds the engine's RNG stream, the process-level `set_seed`
// operation of §6: since the RNG stream fully determines execution
// from here on (§5), two engines seeded identically and driven with the
// same sequence of calls produce bit-identical populations.
func (e *Engine) SetSeed(seed int64) { e.RNG.Seed(seed) }

// GetSeed returns the last seed passed to SetSeed or to NewEngine's
// RNGSource constructor, the process-level `get_seed` operation of §6.
func (e *Engine) GetSeed() int64 { return e.RNG.GetSeed() }

// sourceForChild picks which subpopulation a new child's parents should
// be drawn from: the subpopulation itself with probability
// 1 - sum(migration rates), or one of its configured migration sources
// with probability proportional to each source's configured rate.
func sourceForChild(pop *Population, sp *Subpopulation, rng RNGSource) *Subpopulation {
	if len(sp.Migration) == 0 {
		return sp
	}
	weights := make([]float64, len(sp.Migration)+1)
	total := 0.0
	for i, m := range sp.Migration {
		weights[i+1] = m.Rate
		total += m.Rate
	}
	weights[0] = 1 - total
	if weights[0] < 0 {
		weights[0] = 0
	}
	choice := rng.WeightedChoice(weights)
	if choice == 0 {
		return sp
	}
	src, ok := pop.Subpops[sp.Migration[choice-1].SourceID]
	if !ok {
		return sp
	}
	return src
}

// drawChild produces one new Individual for subpopulation sp, deciding
// clonal vs. selfed vs. sexual reproduction per the configured fractions
// before drawing parents (§4.5 step 0; cloning fraction added by §12).
// A mateChoice hook, if present, may redirect the second parent chosen
// for sexual reproduction (§4.7 step 3).
func drawChild(pop *Population, sp *Subpopulation, rng RNGSource, generation int, hooks LifecycleHooks) Individual {
	source := sourceForChild(pop, sp, rng)
	if len(source.parents) == 0 {
		// An empty source subpopulation cannot supply parents; fall back
		// to the target subpopulation itself, which the caller has
		// already guaranteed is non-empty before calling RunOneGeneration.
		source = sp
	}

	roll := rng.Uniform()
	switch {
	case roll < sp.CloningFraction:
		pi := source.PickParentIndex(rng)
		parent := source.parents[pi]
		return Individual{
			Genome1: DrawGamete(sp.Chromosome, parent.Genome1, parent.Genome1, rng, generation, sp.ID),
			Genome2: DrawGamete(sp.Chromosome, parent.Genome2, parent.Genome2, rng, generation, sp.ID),
		}
	case roll < sp.CloningFraction+sp.SelfingFraction:
		pi := source.PickParentIndex(rng)
		parent := source.parents[pi]
		return Individual{
			Genome1: DrawGamete(sp.Chromosome, parent.Genome1, parent.Genome2, rng, generation, sp.ID),
			Genome2: DrawGamete(sp.Chromosome, parent.Genome1, parent.Genome2, rng, generation, sp.ID),
		}
	default:
		p1i := source.PickParentIndex(rng)
		p2i := source.PickParentIndex(rng)
		if hooks != nil {
			if chosen, ok := hooks.MateChoice(sp.ID, p1i, p2i); ok {
				p2i = chosen
			}
		}
		p1 := source.parents[p1i]
		p2 := source.parents[p2i]
		return Individual{
			Genome1: DrawGamete(sp.Chromosome, p1.Genome1, p1.Genome2, rng, generation, sp.ID),
			Genome2: DrawGamete(sp.Chromosome, p2.Genome1, p2.Genome2, rng, generation, sp.ID),
		}
	}
}

// drawAcceptedChild redraws drawChild until an optional modifyChild
// hook accepts the result (§4.7 step 3: "rejection re-draws from
// scratch"). With no Hooks installed, the first draw is always
// accepted.
func (e *Engine) drawAcceptedChild(pop *Population, sp *Subpopulation, generation int) Individual {
	for {
		child := drawChild(pop, sp, e.RNG, generation, e.Hooks)
		if e.Hooks == nil || e.Hooks.ModifyChild(sp.ID, &child) {
			return child
		}
	}
}

// RunOneGeneration performs exactly one generation of the life cycle
// (§4.7): "early" script blocks, a full children generation drawn for
// every subpopulation from fitness-weighted parents (respecting
// migration, the clonal/selfing/sexual split, and any mateChoice/
// modifyChild hooks), "late" script blocks, a fixation scan over the
// new children, the parents/children swap, and finally the generation
// counter increment.
func (e *Engine) RunOneGeneration() error {
	pop := e.Population
	for _, id := range pop.SubpopIDs() {
		sp := pop.Subpops[id]
		if sp.Size() == 0 && sp.TargetSize > 0 {
			return simErrf("subpopulation %d has no parents to draw children from", id)
		}
	}

	if e.Hooks != nil {
		if err := e.Hooks.RunEarly(pop.Generation); err != nil {
			return err
		}
	}

	for _, id := range pop.SubpopIDs() {
		sp := pop.Subpops[id]
		sp.BeginGeneration(sp.TargetSize)
		for i := 0; i < sp.TargetSize; i++ {
			child := e.drawAcceptedChild(pop, sp, pop.Generation)
			child.Fitness = EvaluateFitness(child)
			sp.SetChild(i, child)
		}
	}

	if e.Hooks != nil {
		if err := e.Hooks.RunLate(pop.Generation); err != nil {
			return err
		}
	}

	pop.scanFixations()

	numIndividuals := 0
	for _, id := range pop.SubpopIDs() {
		sp := pop.Subpops[id]
		sp.AdvanceGeneration()
		numIndividuals += sp.Size()
	}
	pop.Generation++
	elog.Generation(pop.Generation, len(pop.Subpops), numIndividuals)
	return nil
}

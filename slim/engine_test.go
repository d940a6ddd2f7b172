package slim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	mt, err := NewMutationType(1, 0.5, DFEFixed, []float64{0})
	require.NoError(t, err)
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	require.NoError(t, err)
	chrom, err := NewChromosome(10000, []GenomicElement{{Type: get, Start: 0, End: 9999}}, 1e-6, 1e-7)
	require.NoError(t, err)

	pop := NewPopulation()
	sp := NewSubpopulation(1, chrom, 50)
	require.NoError(t, pop.AddSubpopulation(sp))

	return NewEngine(pop, NewMathRandSource(seed))
}

func TestRunOneGenerationAdvancesCounterAndKeepsSize(t *testing.T) {
	e := demoEngine(t, 1)
	require.NoError(t, e.RunOneGeneration())
	assert.Equal(t, 1, e.Population.Generation)
	assert.Equal(t, 50, e.Population.Subpops[1].Size())
}

func TestSameSeedProducesIdenticalGenerations(t *testing.T) {
	e1 := demoEngine(t, 42)
	e2 := demoEngine(t, 42)
	for i := 0; i < 5; i++ {
		require.NoError(t, e1.RunOneGeneration())
		require.NoError(t, e2.RunOneGeneration())
	}

	sp1 := e1.Population.Subpops[1]
	sp2 := e2.Population.Subpops[1]
	require.Equal(t, sp1.Size(), sp2.Size())
	for i := range sp1.Parents() {
		a := sp1.Parents()[i]
		b := sp2.Parents()[i]
		assert.Equal(t, len(a.Genome1.Mutations), len(b.Genome1.Mutations))
		assert.Equal(t, len(a.Genome2.Mutations), len(b.Genome2.Mutations))
	}
}

func TestRunOneGenerationOnEmptySubpopulationFails(t *testing.T) {
	e := demoEngine(t, 1)
	e.Population.Subpops[1].parents = nil
	e.Population.Subpops[1].TargetSize = 50
	err := e.RunOneGeneration()
	require.Error(t, err)
	_, ok := err.(*SimulationError)
	assert.True(t, ok)
}

// recordingHooks is a LifecycleHooks double that records call order and
// can force a fixed number of modifyChild rejections before accepting.
type recordingHooks struct {
	order         []string
	rejectsLeft   int
	mateChoiceHit bool
}

func (h *recordingHooks) RunEarly(g int) error {
	h.order = append(h.order, "early")
	return nil
}

func (h *recordingHooks) RunLate(g int) error {
	h.order = append(h.order, "late")
	return nil
}

func (h *recordingHooks) MateChoice(spID, firstParent, candidate int) (int, bool) {
	h.mateChoiceHit = true
	return candidate, false
}

func (h *recordingHooks) ModifyChild(spID int, child *Individual) bool {
	if h.rejectsLeft > 0 {
		h.rejectsLeft--
		return false
	}
	return true
}

func TestRunOneGenerationCallsHooksInOrder(t *testing.T) {
	e := demoEngine(t, 1)
	hooks := &recordingHooks{}
	e.Hooks = hooks
	require.NoError(t, e.RunOneGeneration())
	require.Equal(t, []string{"early", "late"}, hooks.order)
	assert.True(t, hooks.mateChoiceHit)
}

func TestRunOneGenerationRedrawsRejectedChildren(t *testing.T) {
	e := demoEngine(t, 1)
	hooks := &recordingHooks{rejectsLeft: 3}
	e.Hooks = hooks
	require.NoError(t, e.RunOneGeneration())
	assert.Equal(t, 0, hooks.rejectsLeft)
	assert.Equal(t, 50, e.Population.Subpops[1].Size())
}

func TestRunOneGenerationPropagatesHookError(t *testing.T) {
	e := demoEngine(t, 1)
	e.Hooks = erroringHooks{}
	err := e.RunOneGeneration()
	require.Error(t, err)
}

type erroringHooks struct{}

func (erroringHooks) RunEarly(g int) error                           { return simErrf("early hook failed") }
func (erroringHooks) RunLate(g int) error                            { return nil }
func (erroringHooks) MateChoice(spID, firstParent, candidate int) (int, bool) { return candidate, false }
func (erroringHooks) ModifyChild(spID int, child *Individual) bool   { return true }

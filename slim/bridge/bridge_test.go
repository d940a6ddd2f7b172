package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slimcore/eidos/eidos"
	"github.com/slimcore/eidos/slim"
)

func demoEngine(t *testing.T) *slim.Engine {
	t.Helper()
	mt, err := slim.NewMutationType(1, 0.5, slim.DFEFixed, []float64{0})
	require.NoError(t, err)
	get, err := slim.NewGenomicElementType(1, []*slim.MutationType{mt}, []float64{1})
	require.NoError(t, err)
	chrom, err := slim.NewChromosome(1000, []slim.GenomicElement{{Type: get, Start: 0, End: 999}}, 1e-7, 1e-8)
	require.NoError(t, err)

	pop := slim.NewPopulation()
	sp := slim.NewSubpopulation(1, chrom, 10)
	require.NoError(t, pop.AddSubpopulation(sp))

	return slim.NewEngine(pop, slim.NewMathRandSource(1))
}

func TestScriptRunnerRunsEarlyAndLateBlocksByGeneration(t *testing.T) {
	engine := demoEngine(t)
	interp := eidos.NewInterp()
	Install(interp, engine)
	// NewPopulation starts at generation 0; start this run at 1 so the
	// first RunOneGeneration call runs the generation-1 blocks.
	engine.Population.Generation = 1

	var seen []string
	interp.RegisterFunction("record", &eidos.Builtin{
		Sig: eidos.Signature{Name: "record", Args: []eidos.ArgMask{{Name: "tag", Kinds: []eidos.Kind{eidos.KindString}, Singleton: true}}},
		Impl: func(in *eidos.Interp, pos eidos.Pos, args []eidos.Value) (eidos.Value, error) {
			seen = append(seen, args[0].StringAt(0))
			return eidos.Null.WithInvisible(true), nil
		},
	})

	blocks, err := eidos.ParseScript(`1 early { record("early1"); } 1 late { record("late1"); } 2 early { record("early2"); }`)
	require.NoError(t, err)
	runner := NewScriptRunner(interp, blocks)
	engine.Hooks = runner

	require.NoError(t, engine.RunOneGeneration())
	require.Equal(t, []string{"early1", "late1"}, seen)

	seen = nil
	require.NoError(t, engine.RunOneGeneration())
	require.Equal(t, []string{"early2"}, seen)
}

func TestScriptRunnerDoneTracksMaxEndGenAndFinished(t *testing.T) {
	engine := demoEngine(t)
	interp := eidos.NewInterp()
	Install(interp, engine)

	blocks, err := eidos.ParseScript(`1:3 early { x = 1; } 2:5 late { y = 2; }`)
	require.NoError(t, err)
	runner := NewScriptRunner(interp, blocks)

	require.False(t, runner.Done(5))
	require.True(t, runner.Done(6))

	require.False(t, runner.Finished())
	_, err = interp.Eval("simulationFinished();")
	require.NoError(t, err)
	require.True(t, runner.Finished())
	require.True(t, runner.Done(1))
}

func TestScriptRunnerMateChoiceReadsBlockValue(t *testing.T) {
	engine := demoEngine(t)
	interp := eidos.NewInterp()
	Install(interp, engine)

	blocks, err := eidos.ParseScript(`1 mateChoice { 7; }`)
	require.NoError(t, err)
	runner := NewScriptRunner(interp, blocks)
	runner.currentGen = 1

	chosen, ok := runner.MateChoice(1, 0, 3)
	require.True(t, ok)
	require.Equal(t, 7, chosen)
}

func TestScriptRunnerMateChoiceWithNoBlocksDeclinesToOverride(t *testing.T) {
	engine := demoEngine(t)
	interp := eidos.NewInterp()
	Install(interp, engine)

	runner := NewScriptRunner(interp, nil)
	chosen, ok := runner.MateChoice(1, 0, 3)
	require.False(t, ok)
	require.Equal(t, 3, chosen)
}

func TestScriptRunnerModifyChildRejectsOnFalse(t *testing.T) {
	engine := demoEngine(t)
	interp := eidos.NewInterp()
	Install(interp, engine)

	blocks, err := eidos.ParseScript(`1 modifyChild { F; }`)
	require.NoError(t, err)
	runner := NewScriptRunner(interp, blocks)
	runner.currentGen = 1

	child := &slim.Individual{}
	require.False(t, runner.ModifyChild(1, child))
}

func TestScriptRunnerModifyChildAcceptsWithNoBlocks(t *testing.T) {
	engine := demoEngine(t)
	interp := eidos.NewInterp()
	Install(interp, engine)

	runner := NewScriptRunner(interp, nil)
	child := &slim.Individual{}
	require.True(t, runner.ModifyChild(1, child))
}

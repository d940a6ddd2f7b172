package slim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFitnessHomozygoteUsesFullSelectionCoeff(t *testing.T) {
	mt, err := NewMutationType(1, 0.5, DFEFixed, []float64{-0.1})
	require.NoError(t, err)
	m := &Mutation{ID: 1, Type: mt, Position: 10, SelectionCoeff: -0.1}

	g1, g2 := NewGenome(), NewGenome()
	g1.AddMutation(m)
	g2.AddMutation(m)

	got := EvaluateFitness(Individual{Genome1: g1, Genome2: g2})
	assert.InDelta(t, 0.9, got, 1e-9)
}

func TestEvaluateFitnessHeterozygoteUsesDominanceWeightedCoeff(t *testing.T) {
	mt, err := NewMutationType(1, 0.5, DFEFixed, []float64{-0.1})
	require.NoError(t, err)
	m := &Mutation{ID: 1, Type: mt, Position: 10, SelectionCoeff: -0.1}

	g1, g2 := NewGenome(), NewGenome()
	g1.AddMutation(m)

	got := EvaluateFitness(Individual{Genome1: g1, Genome2: g2})
	assert.InDelta(t, 1+0.5*-0.1, got, 1e-9)
}

func TestEvaluateFitnessSkipsNullGenome(t *testing.T) {
	mt, err := NewMutationType(1, 0.5, DFEFixed, []float64{-0.2})
	require.NoError(t, err)
	m := &Mutation{ID: 1, Type: mt, Position: 5, SelectionCoeff: -0.2}

	g1 := NewGenome()
	g1.AddMutation(m)
	g2 := NewNullGenome()

	got := EvaluateFitness(Individual{Genome1: g1, Genome2: g2})
	assert.InDelta(t, 0.8, got, 1e-9)
}

package slim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMutationType(t *testing.T) *MutationType {
	mt, err := NewMutationType(1, 0.5, DFEFixed, []float64{-0.01})
	require.NoError(t, err)
	return mt
}

func TestNewChromosomeRejectsOverlappingElements(t *testing.T) {
	mt := testMutationType(t)
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	require.NoError(t, err)

	_, err = NewChromosome(1000, []GenomicElement{
		{Type: get, Start: 0, End: 500},
		{Type: get, Start: 400, End: 800},
	}, 1e-7, 1e-8)
	require.Error(t, err)
}

func TestNewChromosomeRejectsOutOfBoundsElement(t *testing.T) {
	mt := testMutationType(t)
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	require.NoError(t, err)

	_, err = NewChromosome(100, []GenomicElement{{Type: get, Start: 0, End: 200}}, 1e-7, 1e-8)
	require.Error(t, err)
}

func TestChromosomeSortsElements(t *testing.T) {
	mt := testMutationType(t)
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	require.NoError(t, err)

	chrom, err := NewChromosome(1000, []GenomicElement{
		{Type: get, Start: 500, End: 999},
		{Type: get, Start: 0, End: 499},
	}, 1e-7, 1e-8)
	require.NoError(t, err)
	assert.Equal(t, 0, chrom.Elements[0].Start)
	assert.Equal(t, 500, chrom.Elements[1].Start)
}

func TestElementAtFindsContainingElement(t *testing.T) {
	mt := testMutationType(t)
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	require.NoError(t, err)
	chrom, err := NewChromosome(1000, []GenomicElement{{Type: get, Start: 100, End: 199}}, 1e-7, 1e-8)
	require.NoError(t, err)

	_, ok := chrom.ElementAt(150)
	assert.True(t, ok)
	_, ok = chrom.ElementAt(50)
	assert.False(t, ok)
}

func TestDrawMutationAndCrossoverCountsZeroRateYieldsZero(t *testing.T) {
	mt := testMutationType(t)
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	require.NoError(t, err)
	chrom, err := NewChromosome(1000, []GenomicElement{{Type: get, Start: 0, End: 999}}, 0, 0)
	require.NoError(t, err)

	rng := NewMathRandSource(1)
	for i := 0; i < 10; i++ {
		kMu, kR := chrom.DrawMutationAndCrossoverCounts(rng)
		assert.Equal(t, 0, kMu)
		assert.Equal(t, 0, kR)
	}
}

func TestDrawMutationAndCrossoverCountsHighRateYieldsNonzero(t *testing.T) {
	mt := testMutationType(t)
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	require.NoError(t, err)
	// A length-10000 chromosome at these per-bp rates gives expected
	// counts of 10 mutations and 5 crossovers per meiosis, so at least
	// one of a handful of draws should come back nonzero for each.
	chrom, err := NewChromosome(10000, []GenomicElement{{Type: get, Start: 0, End: 9999}}, 1e-3, 5e-4)
	require.NoError(t, err)

	rng := NewMathRandSource(1)
	var sawMut, sawCross bool
	for i := 0; i < 20; i++ {
		kMu, kR := chrom.DrawMutationAndCrossoverCounts(rng)
		if kMu > 0 {
			sawMut = true
		}
		if kR > 0 {
			sawCross = true
		}
	}
	assert.True(t, sawMut, "expected at least one nonzero mutation count over 20 draws")
	assert.True(t, sawCross, "expected at least one nonzero crossover count over 20 draws")
}

func TestSetGeneConversionRejectsInvalidValues(t *testing.T) {
	mt := testMutationType(t)
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	require.NoError(t, err)
	chrom, err := NewChromosome(1000, []GenomicElement{{Type: get, Start: 0, End: 999}}, 1e-7, 1e-8)
	require.NoError(t, err)

	assert.Error(t, chrom.SetGeneConversion(-0.1, 50))
	assert.Error(t, chrom.SetGeneConversion(1.1, 50))
	assert.Error(t, chrom.SetGeneConversion(0.5, 0))
	assert.NoError(t, chrom.SetGeneConversion(0.5, 50))
	assert.Equal(t, 0.5, chrom.GeneConversionFraction)
}

func TestDrawMutationPositionWithNoElementsReturnsFalse(t *testing.T) {
	chrom, err := NewChromosome(1000, nil, 1e-7, 1e-8)
	require.NoError(t, err)
	_, _, ok := chrom.DrawMutationPosition(NewMathRandSource(1))
	assert.False(t, ok)
}

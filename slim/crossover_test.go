package slim

import "testing"

// fakeRNG is a scripted RNGSource for deterministically exercising a
// single meiosis draw in DrawGamete without depending on math/rand's
// actual distributions.
type fakeRNG struct {
	uniforms []float64
	intns    []int
	poissons []int
	exps     []float64
}

func (f *fakeRNG) Seed(int64)    {}
func (f *fakeRNG) GetSeed() int64 { return 0 }

func (f *fakeRNG) Uniform() float64 {
	v := f.uniforms[0]
	f.uniforms = f.uniforms[1:]
	return v
}

func (f *fakeRNG) IntN(n int) int {
	v := f.intns[0]
	f.intns = f.intns[1:]
	return v
}

func (f *fakeRNG) Poisson(lambda float64) int {
	v := f.poissons[0]
	f.poissons = f.poissons[1:]
	return v
}

func (f *fakeRNG) Exponential(rate float64) float64 {
	v := f.exps[0]
	f.exps = f.exps[1:]
	return v
}

func (f *fakeRNG) Normal() float64                       { return 0 }
func (f *fakeRNG) Gamma(k, theta float64) float64         { return 0 }
func (f *fakeRNG) WeightedChoice(weights []float64) int   { return 0 }

func TestDrawGameteGeneConversionTractFlipsBackAtTractEnd(t *testing.T) {
	mt := &MutationType{ID: 1, DominanceCoeff: 0.5}
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	if err != nil {
		t.Fatalf("NewGenomicElementType: %v", err)
	}
	chrom, err := NewChromosome(100, []GenomicElement{{Type: get, Start: 0, End: 99}}, 0, 0.01)
	if err != nil {
		t.Fatalf("NewChromosome: %v", err)
	}
	if err := chrom.SetGeneConversion(1.0, 5); err != nil {
		t.Fatalf("SetGeneConversion: %v", err)
	}

	rng := &fakeRNG{
		uniforms: []float64{0.5, 0.5, 0.1},
		intns:    []int{50},
		poissons: []int{1},
		exps:     []float64{4.0},
	}

	g1 := NewGenome()
	g2 := NewGenome()
	ma := &Mutation{ID: 1, Type: mt, Position: 10}
	mb := &Mutation{ID: 2, Type: mt, Position: 52}
	mc := &Mutation{ID: 3, Type: mt, Position: 60}
	md := &Mutation{ID: 4, Type: mt, Position: 10}
	me := &Mutation{ID: 5, Type: mt, Position: 52}
	mf := &Mutation{ID: 6, Type: mt, Position: 60}
	g1.Mutations = []*Mutation{ma, mb, mc}
	g2.Mutations = []*Mutation{md, me, mf}

	out := DrawGamete(chrom, g1, g2, rng, 1, 1)

	byPos := map[int]*Mutation{}
	for _, m := range out.Mutations {
		byPos[m.Position] = m
	}
	if byPos[10] != ma {
		t.Errorf("position 10 (before tract) should come from g1, got %v", byPos[10])
	}
	if byPos[52] != me {
		t.Errorf("position 52 (inside the [50,55) tract) should come from g2, got %v", byPos[52])
	}
	if byPos[60] != mc {
		t.Errorf("position 60 (after the tract ends) should come from g1 again, got %v", byPos[60])
	}
}

func TestDrawGameteNoCrossoverPassesG1Unchanged(t *testing.T) {
	mt := &MutationType{ID: 1, DominanceCoeff: 0.5}
	get, err := NewGenomicElementType(1, []*MutationType{mt}, []float64{1})
	if err != nil {
		t.Fatalf("NewGenomicElementType: %v", err)
	}
	chrom, err := NewChromosome(100, []GenomicElement{{Type: get, Start: 0, End: 99}}, 0, 0.01)
	if err != nil {
		t.Fatalf("NewChromosome: %v", err)
	}

	rng := &fakeRNG{uniforms: []float64{0.1}}

	g1 := NewGenome()
	g2 := NewGenome()
	ma := &Mutation{ID: 1, Type: mt, Position: 10}
	md := &Mutation{ID: 2, Type: mt, Position: 20}
	g1.Mutations = []*Mutation{ma}
	g2.Mutations = []*Mutation{md}

	out := DrawGamete(chrom, g1, g2, rng, 1, 1)

	if len(out.Mutations) != 1 || out.Mutations[0] != ma {
		t.Errorf("with no crossover, gamete should carry exactly g1's mutation, got %v", out.Mutations)
	}
}

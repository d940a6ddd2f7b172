package slim

import (
	"math"
	"math/rand"
)

// RNGSource is the uniform, Poisson, and weighted-sampling environment
// capability the simulation core requires of its host (§4.5/§9). The
// core never reaches for a global math/rand function directly, so an
// embedder can supply a seeded, reproducible source and the run is then
// fully determined by that seed (§5, §8's determinism property).
//
// No third-party PRNG, Poisson, or weighted-discrete-sampler library
// appears anywhere in the retrieved corpus, so this is implemented
// directly on math/rand: the corpus gives no idiom to follow here, and
// math/rand's Source64 plus a handful of textbook sampling algorithms
// are the correct minimal-surface choice for an injectable, seedable
// interface like this one.
type RNGSource interface {
	// Seed resets the stream deterministically.
	Seed(seed int64)
	// GetSeed returns the last seed passed to Seed, or to the
	// constructor, the `getSeed()` process-level operation of §6.
	GetSeed() int64
	// Uniform returns a uniform float64 in [0, 1).
	Uniform() float64
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
	// Poisson draws from a Poisson distribution with mean lambda.
	Poisson(lambda float64) int
	// Exponential draws from an exponential distribution with the given
	// rate parameter.
	Exponential(rate float64) float64
	// Normal draws a standard normal deviate.
	Normal() float64
	// Gamma draws from a gamma distribution with shape k and scale theta.
	Gamma(k, theta float64) float64
	// WeightedChoice returns an index into weights chosen with
	// probability proportional to its weight. weights must be
	// non-negative and sum to a positive value.
	WeightedChoice(weights []float64) int
}

// mathRandSource is the default RNGSource, backed by math/rand.
type mathRandSource struct {
	r    *rand.Rand
	seed int64
}

// NewMathRandSource builds the default RNGSource seeded with seed.
func NewMathRandSource(seed int64) RNGSource {
	return &mathRandSource{r: rand.New(rand.NewSource(seed)), seed: seed}
}

func (m *mathRandSource) Seed(seed int64) {
	m.r = rand.New(rand.NewSource(seed))
	m.seed = seed
}

func (m *mathRandSource) GetSeed() int64 { return m.seed }

func (m *mathRandSource) Uniform() float64 { return m.r.Float64() }

func (m *mathRandSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return m.r.Intn(n)
}

// Poisson uses Knuth's algorithm, which is adequate for the modest
// lambda values (expected mutation/crossover counts per meiosis) this
// engine draws.
func (m *mathRandSource) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= m.r.Float64()
		if p <= l {
			return k - 1
		}
	}
}

func (m *mathRandSource) Exponential(rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return m.r.ExpFloat64() / rate
}

func (m *mathRandSource) Normal() float64 { return m.r.NormFloat64() }

func (m *mathRandSource) Gamma(k, theta float64) float64 {
	// Marsaglia-Tsang method, valid for k >= 1; for k < 1 boost by one
	// degree and correct with a uniform draw, the standard textbook fix.
	if k < 1 {
		u := m.r.Float64()
		return m.Gamma(k+1, theta) * math.Pow(u, 1/k)
	}
	d := k - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = m.r.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := m.r.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v * theta
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v * theta
		}
	}
}

func (m *mathRandSource) WeightedChoice(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return m.IntN(len(weights))
	}
	target := m.r.Float64() * total
	var acc float64
	for i, w := range weights {
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

// Package slim implements the genetic data model and the per-generation
// simulation engine: mutations, mutation types, genomic elements and
// their types, chromosomes, genomes, subpopulations, and the population
// that owns them all.
package slim

import "fmt"

// DFEKind identifies a distribution of fitness effects a MutationType
// draws selection coefficients from.
type DFEKind int

// Supported DFE kinds.
const (
	DFEFixed DFEKind = iota
	DFEExponential
	DFENormal
	DFEGamma
)

// MutationType describes a class of mutation: its dominance coefficient
// and the distribution new selection coefficients are drawn from. Every
// Mutation references exactly one MutationType.
type MutationType struct {
	ID             int
	DominanceCoeff float64
	DFE            DFEKind
	DFEParams      []float64
}

// NewMutationType validates and constructs a MutationType.
func NewMutationType(id int, dominance float64, dfe DFEKind, params []float64) (*MutationType, error) {
	switch dfe {
	case DFEFixed:
		if len(params) != 1 {
			return nil, &SimulationError{Msg: "fixed DFE requires exactly 1 parameter"}
		}
	case DFEExponential:
		if len(params) != 1 {
			return nil, &SimulationError{Msg: "exponential DFE requires exactly 1 parameter"}
		}
	case DFENormal:
		if len(params) != 2 {
			return nil, &SimulationError{Msg: "normal DFE requires exactly 2 parameters"}
		}
	case DFEGamma:
		if len(params) != 2 {
			return nil, &SimulationError{Msg: "gamma DFE requires exactly 2 parameters"}
		}
	default:
		return nil, &SimulationError{Msg: fmt.Sprintf("unknown DFE kind %d", dfe)}
	}
	cp := append([]float64{}, params...)
	return &MutationType{ID: id, DominanceCoeff: dominance, DFE: dfe, DFEParams: cp}, nil
}

// DrawSelectionCoefficient samples a new selection coefficient from this
// type's distribution of fitness effects using rng.
func (mt *MutationType) DrawSelectionCoefficient(rng RNGSource) float64 {
	switch mt.DFE {
	case DFEFixed:
		return mt.DFEParams[0]
	case DFEExponential:
		return rng.Exponential(mt.DFEParams[0])
	case DFENormal:
		return mt.DFEParams[0] + rng.Normal()*mt.DFEParams[1]
	case DFEGamma:
		return rng.Gamma(mt.DFEParams[0], mt.DFEParams[1])
	default:
		return 0
	}
}

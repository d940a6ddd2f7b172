// Package bridge exposes the simulation's genetic data model as
// eidos.HostObject values so that scripts can read and act on
// mutations, subpopulations, and the population itself,
// without the eidos package needing to import slim (§3.2, §9).
package bridge

import (
	"fmt"

	"github.com/slimcore/eidos/eidos"
	"github.com/slimcore/eidos/slim"
)

// MutationObject wraps a *slim.Mutation for script-level property access.
type MutationObject struct {
	M *slim.Mutation
}

func (o *MutationObject) ClassName() string { return "Mutation" }

func (o *MutationObject) Property(name string) (eidos.Value, bool) {
	switch name {
	case "id":
		return eidos.NewInt(o.M.ID), true
	case "position":
		return eidos.NewInt(int64(o.M.Position)), true
	case "selectionCoeff":
		return eidos.NewFloat(o.M.SelectionCoeff), true
	case "originGeneration":
		return eidos.NewInt(int64(o.M.OriginGeneration)), true
	case "originSubpopID":
		return eidos.NewInt(int64(o.M.OriginSubpopID)), true
	default:
		return eidos.Value{}, false
	}
}

func (o *MutationObject) SetProperty(name string, v eidos.Value) error {
	return &eidos.NameError{Name: name}
}

func (o *MutationObject) Method(name string) (*eidos.Builtin, bool) { return nil, false }

// SubpopulationObject wraps a *slim.Subpopulation.
type SubpopulationObject struct {
	Pop *slim.Population
	Sp  *slim.Subpopulation
}

func (o *SubpopulationObject) ClassName() string { return "Subpopulation" }

func (o *SubpopulationObject) Property(name string) (eidos.Value, bool) {
	switch name {
	case "id":
		return eidos.NewInt(int64(o.Sp.ID)), true
	case "size":
		return eidos.NewInt(int64(o.Sp.Size())), true
	case "selfingFraction":
		return eidos.NewFloat(o.Sp.SelfingFraction), true
	case "cloningFraction":
		return eidos.NewFloat(o.Sp.CloningFraction), true
	default:
		return eidos.Value{}, false
	}
}

func (o *SubpopulationObject) SetProperty(name string, v eidos.Value) error {
	switch name {
	case "selfingFraction":
		if v.Kind() != eidos.KindFloat && v.Kind() != eidos.KindInt {
			return &eidos.TypeError{Msg: "selfingFraction requires a numeric value"}
		}
		f, _ := v.AsFloat64(0)
		o.Sp.SelfingFraction = f
		return nil
	case "cloningFraction":
		f, _ := v.AsFloat64(0)
		o.Sp.CloningFraction = f
		return nil
	case "targetSize":
		if v.Kind() != eidos.KindInt {
			return &eidos.TypeError{Msg: "targetSize requires an integer value"}
		}
		o.Sp.TargetSize = int(v.IntAt(0))
		return nil
	default:
		return &eidos.NameError{Name: name}
	}
}

func (o *SubpopulationObject) Method(name string) (*eidos.Builtin, bool) {
	switch name {
	case "meanFitness":
		return &eidos.Builtin{
			Sig: eidos.Signature{Name: "meanFitness"},
			Impl: func(in *eidos.Interp, pos eidos.Pos, args []eidos.Value) (eidos.Value, error) {
				parents := o.Sp.Parents()
				if len(parents) == 0 {
					return eidos.NewFloat(0), nil
				}
				var total float64
				for _, ind := range parents {
					total += ind.Fitness
				}
				return eidos.NewFloat(total / float64(len(parents))), nil
			},
		}, true
	default:
		return nil, false
	}
}

// PopulationObject wraps the *slim.Population.
type PopulationObject struct {
	Engine *slim.Engine
}

func (o *PopulationObject) ClassName() string { return "Population" }

func (o *PopulationObject) Property(name string) (eidos.Value, bool) {
	switch name {
	case "generation":
		return eidos.NewInt(int64(o.Engine.Population.Generation)), true
	case "numSubpopulations":
		return eidos.NewInt(int64(len(o.Engine.Population.Subpops))), true
	default:
		return eidos.Value{}, false
	}
}

func (o *PopulationObject) SetProperty(name string, v eidos.Value) error {
	return &eidos.NameError{Name: name}
}

func (o *PopulationObject) Method(name string) (*eidos.Builtin, bool) {
	switch name {
	case "subpopulation":
		return &eidos.Builtin{
			Sig: eidos.Signature{Name: "subpopulation", Args: []eidos.ArgMask{{Name: "id", Kinds: []eidos.Kind{eidos.KindInt}, Singleton: true}}},
			Impl: func(in *eidos.Interp, pos eidos.Pos, args []eidos.Value) (eidos.Value, error) {
				id := int(args[0].IntAt(0))
				sp, ok := o.Engine.Population.Subpops[id]
				if !ok {
					return eidos.Value{}, &eidos.NameError{Pos: pos, Name: fmt.Sprintf("p%d", id)}
				}
				return eidos.NewObject("Subpopulation", eidos.ExternalPermanent, &SubpopulationObject{Pop: o.Engine.Population, Sp: sp}), nil
			},
		}, true
	default:
		return nil, false
	}
}

// ScriptRunner drives the scripted portions of the per-generation life
// cycle (§4.7) by running parsed eidos.ScriptBlock bodies against an
// Interp. It implements slim.LifecycleHooks so Engine.RunOneGeneration
// can invoke scripted behavior without the slim package importing the
// scripting engine (§3.2, §9, mirrored from the direction the host-
// object wrapper types in this file already keep).
type ScriptRunner struct {
	Interp *eidos.Interp
	Blocks []*eidos.ScriptBlock

	finished   bool
	currentGen int
}

// NewScriptRunner builds a ScriptRunner over blocks and registers the
// `simulationFinished()` builtin (§4.7's termination condition) against
// interp.
func NewScriptRunner(interp *eidos.Interp, blocks []*eidos.ScriptBlock) *ScriptRunner {
	r := &ScriptRunner{Interp: interp, Blocks: blocks}
	interp.RegisterFunction("simulationFinished", &eidos.Builtin{
		Sig: eidos.Signature{Name: "simulationFinished"},
		Impl: func(in *eidos.Interp, pos eidos.Pos, args []eidos.Value) (eidos.Value, error) {
			r.finished = true
			return eidos.Null.WithInvisible(true), nil
		},
	})
	return r
}

func (r *ScriptRunner) blocksFor(kind eidos.EventKind, g int) []*eidos.ScriptBlock {
	var out []*eidos.ScriptBlock
	for _, b := range r.Blocks {
		if b.Kind == kind && b.Active(g) {
			out = append(out, b)
		}
	}
	return out
}

func (r *ScriptRunner) runKind(kind eidos.EventKind, g int) error {
	for _, b := range r.blocksFor(kind, g) {
		if err := r.Interp.RunBlock(b.Body); err != nil {
			return err
		}
	}
	return nil
}

// RunEarly implements slim.LifecycleHooks.
func (r *ScriptRunner) RunEarly(g int) error {
	r.currentGen = g
	return r.runKind(eidos.EventEarly, g)
}

// RunLate implements slim.LifecycleHooks.
func (r *ScriptRunner) RunLate(g int) error {
	return r.runKind(eidos.EventLate, g)
}

// MateChoice implements slim.LifecycleHooks: it binds `firstParent` and
// `candidate` as script globals and runs every active mateChoice block,
// reading the chosen replacement candidate back from each block's
// final statement value when it is an integer (§4.7 step 3).
func (r *ScriptRunner) MateChoice(spID, firstParent, candidate int) (int, bool) {
	blocks := r.blocksFor(eidos.EventMateChoice, r.currentGen)
	if len(blocks) == 0 {
		return candidate, false
	}
	r.Interp.SetGlobal("firstParent", eidos.NewInt(int64(firstParent)))
	r.Interp.SetGlobal("candidate", eidos.NewInt(int64(candidate)))
	chosen := candidate
	for _, b := range blocks {
		v, err := r.Interp.RunBlockValue(b.Body)
		if err != nil {
			continue
		}
		if v.Kind() == eidos.KindInt && v.Len() > 0 {
			chosen = int(v.IntAt(0))
		}
	}
	return chosen, true
}

// ModifyChild implements slim.LifecycleHooks: it runs every active
// modifyChild block and accepts the child unless some block's final
// statement value is the logical F (§4.7 step 3).
func (r *ScriptRunner) ModifyChild(spID int, child *slim.Individual) bool {
	blocks := r.blocksFor(eidos.EventModifyChild, r.currentGen)
	accept := true
	for _, b := range blocks {
		v, err := r.Interp.RunBlockValue(b.Body)
		if err != nil {
			accept = false
			continue
		}
		if v.Kind() == eidos.KindLogical && v.Len() > 0 {
			accept = accept && v.LogicalAt(0)
		}
	}
	return accept
}

// Finished reports whether a script has called `simulationFinished()`.
func (r *ScriptRunner) Finished() bool { return r.finished }

// Done reports whether generation g has run past every registered
// script block's upper bound, or the simulation was otherwise marked
// finished by a script (§4.7's termination condition). Driver loops
// (e.g. cmd/eidos) call this to decide when to stop calling
// runOneGeneration.
func (r *ScriptRunner) Done(g int) bool {
	if r.finished {
		return true
	}
	if len(r.Blocks) == 0 {
		return false
	}
	maxEnd := r.Blocks[0].EndGen
	for _, b := range r.Blocks {
		if b.EndGen > maxEnd {
			maxEnd = b.EndGen
		}
	}
	return g > maxEnd
}

// Install registers `sim` (the population) and one `p<id>` global per
// subpopulation into interp, plus the `runOneGeneration`, `setSeed`, and
// `getSeed` process-level functions from §6, so scripts can drive and
// observe the simulation engine directly.
func Install(interp *eidos.Interp, engine *slim.Engine) {
	interp.SetGlobal("sim", eidos.NewObject("Population", eidos.ExternalPermanent, &PopulationObject{Engine: engine}))
	for _, id := range engine.Population.SubpopIDs() {
		sp := engine.Population.Subpops[id]
		name := fmt.Sprintf("p%d", id)
		interp.SetGlobal(name, eidos.NewObject("Subpopulation", eidos.ExternalPermanent, &SubpopulationObject{Pop: engine.Population, Sp: sp}))
	}

	interp.RegisterFunction("runOneGeneration", &eidos.Builtin{
		Sig: eidos.Signature{Name: "runOneGeneration"},
		Impl: func(in *eidos.Interp, pos eidos.Pos, args []eidos.Value) (eidos.Value, error) {
			if err := engine.RunOneGeneration(); err != nil {
				return eidos.Value{}, &eidos.DomainError{Pos: pos, Msg: err.Error()}
			}
			return eidos.Null.WithInvisible(true), nil
		},
	})

	interp.RegisterFunction("setSeed", &eidos.Builtin{
		Sig: eidos.Signature{Name: "setSeed", Args: []eidos.ArgMask{{Name: "seed", Kinds: []eidos.Kind{eidos.KindInt}, Singleton: true}}},
		Impl: func(in *eidos.Interp, pos eidos.Pos, args []eidos.Value) (eidos.Value, error) {
			engine.SetSeed(args[0].IntAt(0))
			return eidos.Null.WithInvisible(true), nil
		},
	})

	interp.RegisterFunction("getSeed", &eidos.Builtin{
		Sig: eidos.Signature{Name: "getSeed"},
		Impl: func(in *eidos.Interp, pos eidos.Pos, args []eidos.Value) (eidos.Value, error) {
			return eidos.NewInt(engine.GetSeed()), nil
		},
	})
}

package eidos

import "fmt"

// ArgMask describes the constraints a single declared parameter places
// on the argument bound to it: which kinds it accepts, whether it must
// be a singleton, whether it may be omitted, and whether it instead
// collects every remaining argument (an ellipsis parameter, which must
// be last).
type ArgMask struct {
	Name      string
	Kinds     []Kind // empty means "any kind"
	Singleton bool
	Optional  bool
	Default   Value
	Ellipsis  bool
}

func (m ArgMask) accepts(k Kind) bool {
	if len(m.Kinds) == 0 {
		return true
	}
	if k == KindNull {
		return true // NULL is always an acceptable stand-in per the optional/NULL-default convention
	}
	for _, want := range m.Kinds {
		if want == k {
			return true
		}
	}
	return false
}

// Signature is a function or method's declared argument contract. The
// interpreter checks every call against one of these before invoking the
// underlying Go implementation. A NULL argument passes every kind mask
// and the singleton check, so implementations that accept optional
// arguments still see NULL and handle it themselves.
type Signature struct {
	Name string
	Args []ArgMask
}

// Check validates args against the signature and returns the bound
// arguments, expanding missing optional arguments to their declared
// default and collecting any ellipsis tail into the final slot.
func (sig Signature) Check(pos Pos, args []Value) ([]Value, error) {
	bound := make([]Value, 0, len(sig.Args))
	ai := 0
	for i, mask := range sig.Args {
		if mask.Ellipsis {
			for ; ai < len(args); ai++ {
				bound = append(bound, args[ai])
			}
			return bound, nil
		}
		if ai >= len(args) {
			if !mask.Optional {
				return nil, &TypeError{Pos: pos, Msg: fmt.Sprintf("%s: missing required argument %q", sig.Name, mask.Name)}
			}
			bound = append(bound, mask.Default)
			continue
		}
		v := args[ai]
		if !mask.accepts(v.Kind()) {
			return nil, &TypeError{Pos: pos, Msg: fmt.Sprintf("%s: argument %d (%s) has wrong type %s", sig.Name, i+1, mask.Name, v.Kind())}
		}
		if mask.Singleton && v.Kind() != KindNull && !v.IsSingleton() {
			return nil, &ShapeError{Pos: pos, Left: v.Len(), Right: 1}
		}
		bound = append(bound, v)
		ai++
	}
	if ai < len(args) {
		return nil, &TypeError{Pos: pos, Msg: fmt.Sprintf("%s: too many arguments", sig.Name)}
	}
	return bound, nil
}

// BuiltinFunc is the Go implementation behind a Builtin: it receives an
// interpreter (for evaluating callback arguments, raising errors with
// access to the current call position, etc.) and the already-checked,
// signature-bound argument vector.
type BuiltinFunc func(interp *Interp, pos Pos, args []Value) (Value, error)

// Builtin pairs a Signature with its Go implementation, the unit the
// global function table and every host-object method table are built
// from.
type Builtin struct {
	Sig  Signature
	Impl BuiltinFunc
}

func (b *Builtin) call(interp *Interp, pos Pos, args []Value) (Value, error) {
	bound, err := b.Sig.Check(pos, args)
	if err != nil {
		return Value{}, err
	}
	return b.Impl(interp, pos, bound)
}

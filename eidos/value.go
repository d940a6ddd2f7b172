package eidos

import (
	"fmt"
	"strings"
)

// Kind identifies which of the language's six runtime types a Value
// holds. A Value is always a vector of exactly one Kind; there is no
// per-element tagging the way a dynamically typed scalar language would
// do it.
type Kind int

// The six value kinds.
const (
	KindNull Kind = iota
	KindLogical
	KindInt
	KindFloat
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindLogical:
		return "logical"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ownership describes who is responsible for a Value's backing host
// objects, mirroring the three lifetime classes a host-object bridge can
// hand back to the interpreter: a value the interpreter itself allocated
// and may free when it goes out of scope, a value borrowed from the host
// for the duration of one expression, and a value the host keeps alive
// for as long as the simulation runs (a mutation, a genome, a
// subpopulation).
type Ownership int

// Value ownership classes.
const (
	OwnedTemporary Ownership = iota
	ExternalTemporary
	ExternalPermanent
)

// HostObject is implemented by every simulation entity that a Value of
// KindObject can wrap. The bridge package in slim implements it for
// mutations, subpopulations, and the population itself.
type HostObject interface {
	// ClassName returns the script-visible type name, e.g. "Mutation".
	ClassName() string
	// Property looks up a read-only or read-write property by name.
	Property(name string) (Value, bool)
	// SetProperty assigns to a read-write property by name.
	SetProperty(name string, v Value) error
	// Method looks up a method by name, returning a callable signature
	// bound to this receiver.
	Method(name string) (*Builtin, bool)
}

// Value is a vector of exactly one Kind. The zero Value is the empty
// NULL.
type Value struct {
	kind      Kind
	logicals  []bool
	ints      []int64
	floats    []float64
	strings   []string
	objects   []HostObject
	className string // shared class name for an all-same-class object vector, else ""
	ownership Ownership
	invisible bool
}

// Null is the singleton empty value of kind NULL.
var Null = Value{kind: KindNull}

// NewLogical builds an owned logical vector.
func NewLogical(v ...bool) Value {
	c := make([]bool, len(v))
	copy(c, v)
	return Value{kind: KindLogical, logicals: c}
}

// NewInt builds an owned integer vector.
func NewInt(v ...int64) Value {
	c := make([]int64, len(v))
	copy(c, v)
	return Value{kind: KindInt, ints: c}
}

// NewFloat builds an owned float vector.
func NewFloat(v ...float64) Value {
	c := make([]float64, len(v))
	copy(c, v)
	return Value{kind: KindFloat, floats: c}
}

// NewString builds an owned string vector.
func NewString(v ...string) Value {
	c := make([]string, len(v))
	copy(c, v)
	return Value{kind: KindString, strings: c}
}

// NewObject builds a vector of host objects sharing the given class name
// with the given ownership class.
func NewObject(class string, own Ownership, objs ...HostObject) Value {
	c := make([]HostObject, len(objs))
	copy(c, objs)
	return Value{kind: KindObject, objects: c, className: class, ownership: own}
}

// Kind returns the value's runtime type.
func (v Value) Kind() Kind { return v.kind }

// Len returns the number of elements in the vector.
func (v Value) Len() int {
	switch v.kind {
	case KindNull:
		return 0
	case KindLogical:
		return len(v.logicals)
	case KindInt:
		return len(v.ints)
	case KindFloat:
		return len(v.floats)
	case KindString:
		return len(v.strings)
	case KindObject:
		return len(v.objects)
	}
	return 0
}

// IsSingleton reports whether the value holds exactly one element, the
// precondition for every operator and function parameter marked
// singleton in a signature (§4.2).
func (v Value) IsSingleton() bool { return v.Len() == 1 }

// Invisible reports whether this value should be suppressed from
// interactive echo (assignment results, the return value of print, and
// the NULL produced by control-flow statements and function definitions).
func (v Value) Invisible() bool { return v.invisible }

// WithInvisible returns a copy of v with the invisible flag set.
func (v Value) WithInvisible(b bool) Value {
	v.invisible = b
	return v
}

// Ownership returns the value's lifetime class. Only meaningful for
// KindObject values; all others are always effectively OwnedTemporary.
func (v Value) Ownership() Ownership { return v.ownership }

// ClassName returns the shared host class name of an object vector, or
// "" for any other kind.
func (v Value) ClassName() string { return v.className }

// LogicalAt, IntAt, FloatAt, StringAt, and ObjectAt index into a vector's
// backing storage without any type coercion; callers must already know
// the value's Kind (typically because a signature mask checked it).
func (v Value) LogicalAt(i int) bool         { return v.logicals[i] }
func (v Value) IntAt(i int) int64            { return v.ints[i] }
func (v Value) FloatAt(i int) float64        { return v.floats[i] }
func (v Value) StringAt(i int) string        { return v.strings[i] }
func (v Value) ObjectAt(i int) HostObject    { return v.objects[i] }
func (v Value) Logicals() []bool             { return v.logicals }
func (v Value) Ints() []int64                { return v.ints }
func (v Value) Floats() []float64            { return v.floats }
func (v Value) Strings() []string            { return v.strings }
func (v Value) Objects() []HostObject        { return v.objects }

// AsBool converts a singleton logical/int/float value to a Go bool for
// use as an `if`/`while` condition, the one implicit-coercion point the
// language grammar allows (§4.3).
func (v Value) AsBool() (bool, error) {
	if v.Len() != 1 {
		return false, &TypeError{Msg: fmt.Sprintf("condition requires a singleton, got length %d", v.Len())}
	}
	switch v.kind {
	case KindLogical:
		return v.logicals[0], nil
	case KindInt:
		return v.ints[0] != 0, nil
	case KindFloat:
		return v.floats[0] != 0, nil
	default:
		return false, &TypeError{Msg: fmt.Sprintf("cannot use a value of type %s as a condition", v.kind)}
	}
}

// AsFloat64 widens element i of an int, float, or logical value to
// float64, following the
// language's logical < integer < float promotion order (§3.1/§4.3).
func (v Value) AsFloat64(i int) (float64, error) {
	switch v.kind {
	case KindInt:
		return float64(v.ints[i]), nil
	case KindFloat:
		return v.floats[i], nil
	case KindLogical:
		if v.logicals[i] {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, &TypeError{Msg: fmt.Sprintf("cannot convert %s to a number", v.kind)}
	}
}

// Concat concatenates two values into a new vector, implementing the
// `c()` function's core behavior for a single pair. A NULL operand yields
// the other operand; an int/float pair is promoted to float; any other
// kind mismatch is a TypeError.
func Concat(a, b Value) (Value, error) {
	if a.kind == KindNull {
		return b, nil
	}
	if b.kind == KindNull {
		return a, nil
	}
	if a.kind != b.kind {
		// Numeric promotion order is int -> float (§8's type-promotion
		// law): c(int, float) must come out as float, not raise.
		if a.kind == KindInt && b.kind == KindFloat {
			return Concat(NewFloat(intsToFloats(a.ints)...), b)
		}
		if a.kind == KindFloat && b.kind == KindInt {
			return Concat(a, NewFloat(intsToFloats(b.ints)...))
		}
		return Value{}, &TypeError{Msg: fmt.Sprintf("cannot concatenate %s and %s", a.kind, b.kind)}
	}
	switch a.kind {
	case KindLogical:
		return NewLogical(append(append([]bool{}, a.logicals...), b.logicals...)...), nil
	case KindInt:
		return NewInt(append(append([]int64{}, a.ints...), b.ints...)...), nil
	case KindFloat:
		return NewFloat(append(append([]float64{}, a.floats...), b.floats...)...), nil
	case KindString:
		return NewString(append(append([]string{}, a.strings...), b.strings...)...), nil
	case KindObject:
		class := a.className
		if class == "" {
			class = b.className
		}
		objs := append(append([]HostObject{}, a.objects...), b.objects...)
		return NewObject(class, OwnedTemporary, objs...), nil
	}
	return Value{}, nil
}

func intsToFloats(ints []int64) []float64 {
	out := make([]float64, len(ints))
	for i, x := range ints {
		out[i] = float64(x)
	}
	return out
}

// String renders v the way the interactive echo prints a value.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindLogical:
		parts := make([]string, len(v.logicals))
		for i, b := range v.logicals {
			if b {
				parts[i] = "T"
			} else {
				parts[i] = "F"
			}
		}
		return strings.Join(parts, " ")
	case KindInt:
		parts := make([]string, len(v.ints))
		for i, n := range v.ints {
			parts[i] = fmt.Sprintf("%d", n)
		}
		return strings.Join(parts, " ")
	case KindFloat:
		parts := make([]string, len(v.floats))
		for i, f := range v.floats {
			parts[i] = fmt.Sprintf("%g", f)
		}
		return strings.Join(parts, " ")
	case KindString:
		return strings.Join(v.strings, " ")
	case KindObject:
		parts := make([]string, len(v.objects))
		for i, o := range v.objects {
			parts[i] = fmt.Sprintf("<%s>", o.ClassName())
		}
		return strings.Join(parts, " ")
	}
	return ""
}

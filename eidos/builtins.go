package eidos

import (
	"fmt"
	"sort"
)

// installBuiltins populates the global function table with the small
// set of vector and I/O primitives that are part of the language itself
// rather than the simulation's host-object bridge (which registers its
// own functions separately via RegisterFunction).
func installBuiltins(in *Interp) {
	reg := func(name string, sig Signature, fn BuiltinFunc) {
		in.builtins[name] = &Builtin{Sig: sig, Impl: fn}
	}

	reg("c", Signature{Name: "c", Args: []ArgMask{{Name: "...", Ellipsis: true}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		var acc Value = Null
		for _, a := range args {
			merged, err := Concat(acc, a)
			if err != nil {
				return Value{}, err
			}
			acc = merged
		}
		return acc, nil
	})

	reg("length", Signature{Name: "length", Args: []ArgMask{{Name: "x"}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		return NewInt(int64(args[0].Len())), nil
	})

	reg("sum", Signature{Name: "sum", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindInt, KindFloat, KindLogical}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		v := args[0]
		if v.Kind() == KindInt {
			var total int64
			for _, x := range v.Ints() {
				total += x
			}
			return NewInt(total), nil
		}
		var total float64
		for i := 0; i < v.Len(); i++ {
			f, _ := v.AsFloat64(i)
			total += f
		}
		return NewFloat(total), nil
	})

	reg("mean", Signature{Name: "mean", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindInt, KindFloat, KindLogical}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		v := args[0]
		if v.Len() == 0 {
			return Value{}, &DomainError{Pos: pos, Msg: "mean of an empty vector"}
		}
		var total float64
		for i := 0; i < v.Len(); i++ {
			f, _ := v.AsFloat64(i)
			total += f
		}
		return NewFloat(total / float64(v.Len())), nil
	})

	reg("min", Signature{Name: "min", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindInt, KindFloat}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		return reduceMinMax(pos, args[0], false)
	})
	reg("max", Signature{Name: "max", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindInt, KindFloat}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		return reduceMinMax(pos, args[0], true)
	})

	reg("rev", Signature{Name: "rev", Args: []ArgMask{{Name: "x"}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		v := args[0]
		n := v.Len()
		idx := make([]int64, n)
		for i := 0; i < n; i++ {
			idx[i] = int64(n - 1 - i)
		}
		return indexValue(pos, v, NewInt(idx...))
	})

	reg("sort", Signature{Name: "sort", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindInt, KindFloat, KindString}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		v := args[0]
		switch v.Kind() {
		case KindInt:
			out := append([]int64{}, v.Ints()...)
			sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
			return NewInt(out...), nil
		case KindFloat:
			out := append([]float64{}, v.Floats()...)
			sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
			return NewFloat(out...), nil
		default:
			out := append([]string{}, v.Strings()...)
			sort.Strings(out)
			return NewString(out...), nil
		}
	})

	reg("which", Signature{Name: "which", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindLogical}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		var out []int64
		for i, b := range args[0].Logicals() {
			if b {
				out = append(out, int64(i))
			}
		}
		return NewInt(out...), nil
	})

	reg("match", Signature{Name: "match", Args: []ArgMask{{Name: "x"}, {Name: "table"}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		x, table := args[0], args[1]
		if x.Kind() != table.Kind() {
			return Value{}, &TypeError{Pos: pos, Msg: "match requires x and table to be the same type"}
		}
		out := make([]int64, x.Len())
		for i := 0; i < x.Len(); i++ {
			out[i] = -1
			for j := 0; j < table.Len(); j++ {
				if elementsEqual(x, i, table, j) {
					out[i] = int64(j)
					break
				}
			}
		}
		return NewInt(out...), nil
	})

	reg("any", Signature{Name: "any", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindLogical}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		for _, b := range args[0].Logicals() {
			if b {
				return NewLogical(true), nil
			}
		}
		return NewLogical(false), nil
	})
	reg("all", Signature{Name: "all", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindLogical}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		for _, b := range args[0].Logicals() {
			if !b {
				return NewLogical(false), nil
			}
		}
		return NewLogical(true), nil
	})

	reg("rep", Signature{Name: "rep", Args: []ArgMask{{Name: "x"}, {Name: "times", Kinds: []Kind{KindInt}, Singleton: true}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		v, times := args[0], args[1].IntAt(0)
		if times < 0 {
			return Value{}, &DomainError{Pos: pos, Msg: "rep count must be non-negative"}
		}
		acc := Null
		for i := int64(0); i < times; i++ {
			merged, err := Concat(acc, v)
			if err != nil {
				return Value{}, err
			}
			acc = merged
		}
		return acc, nil
	})

	reg("paste", Signature{Name: "paste", Args: []ArgMask{{Name: "...", Ellipsis: true}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		var sb []string
		for _, a := range args {
			sb = append(sb, a.String())
		}
		s := ""
		for i, p := range sb {
			if i > 0 {
				s += " "
			}
			s += p
		}
		return NewString(s), nil
	})

	reg("print", Signature{Name: "print", Args: []ArgMask{{Name: "x"}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		fmt.Println(args[0].String())
		return args[0].WithInvisible(true), nil
	})

	reg("isNULL", Signature{Name: "isNULL", Args: []ArgMask{{Name: "x"}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		return NewLogical(args[0].Kind() == KindNull), nil
	})

	reg("asInteger", Signature{Name: "asInteger", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindInt, KindFloat, KindLogical}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		v := args[0]
		out := make([]int64, v.Len())
		for i := 0; i < v.Len(); i++ {
			f, _ := v.AsFloat64(i)
			out[i] = int64(f)
		}
		return NewInt(out...), nil
	})
	reg("asFloat", Signature{Name: "asFloat", Args: []ArgMask{{Name: "x", Kinds: []Kind{KindInt, KindFloat, KindLogical}}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		v := args[0]
		out := make([]float64, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i], _ = v.AsFloat64(i)
		}
		return NewFloat(out...), nil
	})

	reg("defineConstant", Signature{Name: "defineConstant", Args: []ArgMask{
		{Name: "name", Kinds: []Kind{KindString}, Singleton: true},
		{Name: "value"},
	}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		name := args[0].StringAt(0)
		if _, ok := in.constants[name]; ok {
			return Value{}, &NameError{Pos: pos, Name: name}
		}
		in.constants[name] = args[1]
		delete(in.global.vars, name)
		return Null.WithInvisible(true), nil
	})

	reg("rm", Signature{Name: "rm", Args: []ArgMask{
		{Name: "name", Kinds: []Kind{KindString}, Singleton: true},
		{Name: "removeConstants", Kinds: []Kind{KindLogical}, Singleton: true, Optional: true, Default: NewLogical(false)},
	}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		name := args[0].StringAt(0)
		if _, ok := in.constants[name]; ok {
			return Value{}, &NameError{Pos: pos, Name: name}
		}
		sc := in.curScope
		if sc == nil {
			sc = in.global
		}
		for s := sc; s != nil; s = s.parent {
			if _, ok := s.vars[name]; ok {
				delete(s.vars, name)
				break
			}
		}
		return Null.WithInvisible(true), nil
	})

	reg("apply", Signature{Name: "apply", Args: []ArgMask{
		{Name: "x"},
		{Name: "lambda", Kinds: []Kind{KindString}, Singleton: true},
	}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		x, lambda := args[0], args[1].StringAt(0)
		stmts, err := Parse(lambda)
		if err != nil {
			return Value{}, err
		}
		outer := in.curScope
		if outer == nil {
			outer = in.global
		}
		var acc Value = Null
		for i := 0; i < x.Len(); i++ {
			elem, err := elementAt(x, i)
			if err != nil {
				return Value{}, posErr(pos, err)
			}
			inner := newScope(outer)
			inner.define("applyValue", elem)
			var last Value
			for _, s := range stmts {
				sig := in.evalStmt(s, inner)
				if sig.Flow == ExceptionFlow {
					return Value{}, sig.Err
				}
				last = sig.Value
			}
			merged, err := Concat(acc, last)
			if err != nil {
				return Value{}, err
			}
			acc = merged
		}
		return acc, nil
	})

	reg("executeLambda", Signature{Name: "executeLambda", Args: []ArgMask{{Name: "s", Kinds: []Kind{KindString}, Singleton: true}}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		stmts, err := Parse(args[0].StringAt(0))
		if err != nil {
			return Value{}, err
		}
		sc := in.curScope
		if sc == nil {
			sc = in.global
		}
		var last Value
		for _, s := range stmts {
			sig := in.evalStmt(s, sc)
			if sig.Flow == ExceptionFlow {
				return Value{}, sig.Err
			}
			last = sig.Value
		}
		return last, nil
	})

	reg("doCall", Signature{Name: "doCall", Args: []ArgMask{
		{Name: "functionName", Kinds: []Kind{KindString}, Singleton: true},
		{Name: "...", Ellipsis: true},
	}}, func(in *Interp, pos Pos, args []Value) (Value, error) {
		name := args[0].StringAt(0)
		rest := args[1:]
		if b, ok := in.builtins[name]; ok {
			return b.call(in, pos, rest)
		}
		if fn, ok := in.functions[name]; ok {
			sig := in.callUserFunction(fn, pos, rest)
			if sig.Flow == ExceptionFlow {
				return Value{}, sig.Err
			}
			return sig.Value, nil
		}
		return Value{}, &NameError{Pos: pos, Name: name}
	})
}

func elementsEqual(a Value, i int, b Value, j int) bool {
	switch a.Kind() {
	case KindInt:
		return a.IntAt(i) == b.IntAt(j)
	case KindFloat:
		return a.FloatAt(i) == b.FloatAt(j)
	case KindString:
		return a.StringAt(i) == b.StringAt(j)
	case KindLogical:
		return a.LogicalAt(i) == b.LogicalAt(j)
	case KindObject:
		return a.ObjectAt(i) == b.ObjectAt(j)
	}
	return false
}

func reduceMinMax(pos Pos, v Value, max bool) (Value, error) {
	if v.Len() == 0 {
		return Value{}, &DomainError{Pos: pos, Msg: "min/max of an empty vector"}
	}
	if v.Kind() == KindInt {
		best := v.IntAt(0)
		for _, x := range v.Ints()[1:] {
			if (max && x > best) || (!max && x < best) {
				best = x
			}
		}
		return NewInt(best), nil
	}
	best, _ := v.AsFloat64(0)
	for i := 1; i < v.Len(); i++ {
		f, _ := v.AsFloat64(i)
		if (max && f > best) || (!max && f < best) {
			best = f
		}
	}
	return NewFloat(best), nil
}

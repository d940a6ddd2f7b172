package eidos

import (
	"fmt"
	"math"
)

// broadcastLen applies the singleton-broadcast rule from the operator
// semantics: either operand may be a singleton paired against a longer
// vector, but if both have length > 1 they must match exactly.
func broadcastLen(pos Pos, a, b int) (int, error) {
	switch {
	case a == b:
		return a, nil
	case a == 1:
		return b, nil
	case b == 1:
		return a, nil
	default:
		return 0, &ShapeError{Pos: pos, Left: a, Right: b}
	}
}

func numAt(v Value, i int) float64 {
	if v.IsSingleton() {
		i = 0
	}
	f, _ := v.AsFloat64(i)
	return f
}

// arithmetic applies op elementwise to a and b following broadcast, and
// produces an int result only if both operands are int and op is not
// division (division and exponentiation always promote to float, as in
// the operator semantics table).
func arithmetic(pos Pos, op string, a, b Value) (Value, error) {
	if a.Kind() == KindNull || b.Kind() == KindNull {
		return Value{}, &TypeError{Pos: pos, Msg: fmt.Sprintf("operator %q does not accept NULL", op)}
	}
	if op == "+" && (a.Kind() == KindString || b.Kind() == KindString) {
		return stringConcat(pos, a, b)
	}
	n, err := broadcastLen(pos, a.Len(), b.Len())
	if err != nil {
		return Value{}, err
	}
	bothInt := a.Kind() == KindInt && b.Kind() == KindInt && op != "/" && op != "^"
	if bothInt {
		out := make([]int64, n)
		ai := a.Ints()
		bi := b.Ints()
		for i := 0; i < n; i++ {
			x := ai[i%len(ai)]
			y := bi[i%len(bi)]
			switch op {
			case "+":
				out[i] = x + y
			case "-":
				out[i] = x - y
			case "*":
				out[i] = x * y
			case "%":
				if y == 0 {
					return Value{}, &NumericError{Pos: pos, Msg: "modulo by zero"}
				}
				out[i] = x % y
			}
		}
		return NewInt(out...), nil
	}
	if a.Kind() != KindInt && a.Kind() != KindFloat {
		return Value{}, &TypeError{Pos: pos, Msg: fmt.Sprintf("operator %q requires numeric operands, got %s", op, a.Kind())}
	}
	if b.Kind() != KindInt && b.Kind() != KindFloat {
		return Value{}, &TypeError{Pos: pos, Msg: fmt.Sprintf("operator %q requires numeric operands, got %s", op, b.Kind())}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		x := numAtIdx(a, i)
		y := numAtIdx(b, i)
		switch op {
		case "+":
			out[i] = x + y
		case "-":
			out[i] = x - y
		case "*":
			out[i] = x * y
		case "/":
			if y == 0 {
				return Value{}, &NumericError{Pos: pos, Msg: "division by zero"}
			}
			out[i] = x / y
		case "%":
			out[i] = math.Mod(x, y)
		case "^":
			out[i] = math.Pow(x, y)
		}
	}
	return NewFloat(out...), nil
}

// stringConcat implements `+` when either operand is a string: the
// non-string operand is stringified elementwise and the results are
// joined pairwise under the usual broadcast rule (§4.3).
func stringConcat(pos Pos, a, b Value) (Value, error) {
	n, err := broadcastLen(pos, a.Len(), b.Len())
	if err != nil {
		return Value{}, err
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		as, err := stringAtIdx(a, i)
		if err != nil {
			return Value{}, err
		}
		bs, err := stringAtIdx(b, i)
		if err != nil {
			return Value{}, err
		}
		out[i] = as + bs
	}
	return NewString(out...), nil
}

func stringAtIdx(v Value, i int) (string, error) {
	idx := i
	if v.IsSingleton() {
		idx = 0
	} else {
		idx = i % v.Len()
	}
	if v.Kind() == KindString {
		return v.StringAt(idx), nil
	}
	elem, err := elementAt(v, idx)
	if err != nil {
		return "", err
	}
	return elem.String(), nil
}

func numAtIdx(v Value, i int) float64 {
	idx := i
	if v.IsSingleton() {
		idx = 0
	} else {
		idx = i % v.Len()
	}
	f, _ := v.AsFloat64(idx)
	return f
}

// compare applies a relational or equality operator elementwise,
// returning a logical vector.
func compare(pos Pos, op string, a, b Value) (Value, error) {
	n, err := broadcastLen(pos, a.Len(), b.Len())
	if err != nil {
		return Value{}, err
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		var res int // -1, 0, 1 for <, ==, >; for strings lexical
		switch {
		case a.Kind() == KindString || b.Kind() == KindString:
			if a.Kind() != KindString || b.Kind() != KindString {
				return Value{}, &TypeError{Pos: pos, Msg: "cannot compare string to non-string"}
			}
			as := a.StringAt(i % a.Len())
			bs := b.StringAt(i % b.Len())
			switch {
			case as < bs:
				res = -1
			case as > bs:
				res = 1
			default:
				res = 0
			}
		default:
			x := numAtIdx(a, i)
			y := numAtIdx(b, i)
			switch {
			case x < y:
				res = -1
			case x > y:
				res = 1
			default:
				res = 0
			}
		}
		switch op {
		case "==":
			out[i] = res == 0
		case "!=":
			out[i] = res != 0
		case "<":
			out[i] = res < 0
		case "<=":
			out[i] = res <= 0
		case ">":
			out[i] = res > 0
		case ">=":
			out[i] = res >= 0
		}
	}
	return NewLogical(out...), nil
}

// logical applies & (and), | (or), && (same as &), || (same as |)
// elementwise to two logical vectors following broadcast. Both operands
// are already evaluated when this is called; && and || do not
// short-circuit.
func logical(pos Pos, op string, a, b Value) (Value, error) {
	if a.Kind() != KindLogical || b.Kind() != KindLogical {
		return Value{}, &TypeError{Pos: pos, Msg: fmt.Sprintf("operator %q requires logical operands", op)}
	}
	n, err := broadcastLen(pos, a.Len(), b.Len())
	if err != nil {
		return Value{}, err
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		x := a.LogicalAt(i % a.Len())
		y := b.LogicalAt(i % b.Len())
		switch op {
		case "&", "&&":
			out[i] = x && y
		case "|", "||":
			out[i] = x || y
		}
	}
	return NewLogical(out...), nil
}

// rangeOp implements a:b, producing an ascending or descending integer
// sequence inclusive of both endpoints.
func rangeOp(pos Pos, a, b Value) (Value, error) {
	if !a.IsSingleton() || !b.IsSingleton() {
		return Value{}, &ShapeError{Pos: pos, Left: a.Len(), Right: b.Len()}
	}
	lo, err := a.AsFloat64(0)
	if err != nil {
		return Value{}, err
	}
	hi, err := b.AsFloat64(0)
	if err != nil {
		return Value{}, err
	}
	var out []int64
	if lo <= hi {
		for i := int64(lo); float64(i) <= hi; i++ {
			out = append(out, i)
		}
	} else {
		for i := int64(lo); float64(i) >= hi; i-- {
			out = append(out, i)
		}
	}
	return NewInt(out...), nil
}

func negate(pos Pos, v Value) (Value, error) {
	switch v.Kind() {
	case KindInt:
		out := make([]int64, v.Len())
		for i, x := range v.Ints() {
			out[i] = -x
		}
		return NewInt(out...), nil
	case KindFloat:
		out := make([]float64, v.Len())
		for i, x := range v.Floats() {
			out[i] = -x
		}
		return NewFloat(out...), nil
	default:
		return Value{}, &TypeError{Pos: pos, Msg: fmt.Sprintf("unary - requires a numeric operand, got %s", v.Kind())}
	}
}

func not(pos Pos, v Value) (Value, error) {
	if v.Kind() != KindLogical {
		return Value{}, &TypeError{Pos: pos, Msg: fmt.Sprintf("unary ! requires a logical operand, got %s", v.Kind())}
	}
	out := make([]bool, v.Len())
	for i, b := range v.Logicals() {
		out[i] = !b
	}
	return NewLogical(out...), nil
}

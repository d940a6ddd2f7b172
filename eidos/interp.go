package eidos

import (
	"fmt"
	"math"
)

// UserFunction is a script-defined function: its parameter names and the
// block that forms its body. Functions are looked up by name from a
// dedicated table rather than being a value kind in their own right,
// matching the six value kinds the data model defines (§3.1) — a
// function is not one of them.
type UserFunction struct {
	Name   string
	Params []string
	Body   *Node
}

// Interp is the tree-walking interpreter: the global scope, the
// function and builtin tables, and the protected constants table holding
// PI/E/INF/NAN plus any names added by defineConstant. T, F and NULL are
// not in that table: they are keywords the parser turns into literals.
type Interp struct {
	global    *scope
	functions map[string]*UserFunction
	builtins  map[string]*Builtin
	constants map[string]Value
	maxCalls  int
	calls     int

	// curScope is the lexical scope active at the call site of whatever
	// builtin is currently running, so that scope-sensitive builtins
	// (apply, executeLambda, rm) can evaluate against the caller's
	// bindings instead of only the global scope. Valid only during a
	// builtin's Impl call.
	curScope *scope
}

// NewInterp builds an interpreter with the standard constants and
// built-in function table installed.
func NewInterp() *Interp {
	in := &Interp{
		global:    newScope(nil),
		functions: make(map[string]*UserFunction),
		builtins:  make(map[string]*Builtin),
		constants: map[string]Value{
			"PI":  NewFloat(3.141592653589793),
			"E":   NewFloat(2.718281828459045),
			"INF": NewFloat(math.Inf(1)),
			"NAN": NewFloat(math.NaN()),
		},
		maxCalls: 10_000_000,
	}
	installBuiltins(in)
	return in
}

// RegisterFunction installs or replaces a global builtin function. The
// host-object bridge uses this to expose simulation-level functions
// (e.g. constructing a Mutation, querying the population) into scripts
// without the eidos package importing the simulation packages.
func (in *Interp) RegisterFunction(name string, b *Builtin) {
	in.builtins[name] = b
}

// SetGlobal assigns a variable in the interpreter's top-level scope,
// used by an embedder to pass named simulation state (e.g. `sim`, `p1`)
// into script evaluation.
func (in *Interp) SetGlobal(name string, v Value) {
	in.global.define(name, v)
}

// Eval parses and runs src as a full program in the interpreter's global
// scope, returning the value of the last statement and any error.
func (in *Interp) Eval(src string) (Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	var last Value
	for _, s := range stmts {
		sig := in.evalStmt(s, in.global)
		if sig.Flow == ExceptionFlow {
			return Value{}, sig.Err
		}
		if sig.Flow != NoFlow {
			return Value{}, &ParseError{Pos: s.Pos(), Msg: fmt.Sprintf("%s outside of a loop or function", sig.Flow)}
		}
		last = sig.Value
	}
	return last, nil
}

// RunBlock evaluates body (ordinarily a ScriptBlock's Body) in the
// interpreter's global scope and returns its error, if any, so an
// embedder's life-cycle driver can invoke the block bodies §6's script
// blocks parse into without needing its own copy of the tree-walking
// switch.
func (in *Interp) RunBlock(body *Node) error {
	_, err := in.RunBlockValue(body)
	return err
}

// RunBlockValue evaluates body in the interpreter's global scope and
// also returns the value of its last statement, the convention a
// mateChoice or modifyChild callback block's decision is read back
// through.
func (in *Interp) RunBlockValue(body *Node) (Value, error) {
	sig := in.evalStmt(body, in.global)
	if sig.Flow == ExceptionFlow {
		return Value{}, sig.Err
	}
	return sig.Value, nil
}

func (in *Interp) evalStmt(n *Node, sc *scope) Signal {
	switch n.Kind {
	case NodeBlock:
		inner := newScope(sc)
		var last Value
		for _, c := range n.Children {
			sig := in.evalStmt(c, inner)
			if sig.Flow != NoFlow {
				return sig
			}
			last = sig.Value
		}
		return Normal(last)
	case NodeExprStmt:
		return in.evalExpr(n.Children[0], sc)
	case NodeIf:
		cond := in.evalExpr(n.Children[0], sc)
		if cond.Flow != NoFlow {
			return cond
		}
		ok, err := cond.Value.AsBool()
		if err != nil {
			return Raise(posErr(n.Pos(), err))
		}
		if ok {
			return in.evalStmt(n.Children[1], sc)
		}
		if len(n.Children) > 2 {
			return in.evalStmt(n.Children[2], sc)
		}
		return Normal(Null.WithInvisible(true))
	case NodeWhile:
		for {
			cond := in.evalExpr(n.Children[0], sc)
			if cond.Flow != NoFlow {
				return cond
			}
			ok, err := cond.Value.AsBool()
			if err != nil {
				return Raise(posErr(n.Pos(), err))
			}
			if !ok {
				return Normal(Null.WithInvisible(true))
			}
			sig := in.evalStmt(n.Children[1], sc)
			switch sig.Flow {
			case NoFlow, NextFlow:
			case BreakFlow:
				return Normal(Null.WithInvisible(true))
			default:
				return sig
			}
		}
	case NodeDoWhile:
		for {
			sig := in.evalStmt(n.Children[1], sc)
			switch sig.Flow {
			case NoFlow, NextFlow:
			case BreakFlow:
				return Normal(Null.WithInvisible(true))
			default:
				return sig
			}
			cond := in.evalExpr(n.Children[0], sc)
			if cond.Flow != NoFlow {
				return cond
			}
			ok, err := cond.Value.AsBool()
			if err != nil {
				return Raise(posErr(n.Pos(), err))
			}
			if !ok {
				return Normal(Null.WithInvisible(true))
			}
		}
	case NodeFor:
		seq := in.evalExpr(n.Children[0], sc)
		if seq.Flow != NoFlow {
			return seq
		}
		v := seq.Value
		for i := 0; i < v.Len(); i++ {
			elem, err := elementAt(v, i)
			if err != nil {
				return Raise(posErr(n.Pos(), err))
			}
			inner := newScope(sc)
			inner.define(n.Name, elem)
			sig := in.evalStmt(n.Children[1], inner)
			switch sig.Flow {
			case NoFlow, NextFlow:
			case BreakFlow:
				return Normal(Null.WithInvisible(true))
			default:
				return sig
			}
		}
		return Normal(Null.WithInvisible(true))
	case NodeNext:
		return Signal{Flow: NextFlow}
	case NodeBreak:
		return Signal{Flow: BreakFlow}
	case NodeReturn:
		var v Value
		if len(n.Children) > 0 {
			sig := in.evalExpr(n.Children[0], sc)
			if sig.Flow != NoFlow {
				return sig
			}
			v = sig.Value
		}
		return Signal{Value: v, Flow: ReturnFlow}
	case NodeFunctionDef:
		in.functions[n.Name] = &UserFunction{Name: n.Name, Params: n.Params, Body: n.Children[0]}
		return Normal(Null.WithInvisible(true))
	default:
		return in.evalExpr(n, sc)
	}
}

func elementAt(v Value, i int) (Value, error) {
	switch v.Kind() {
	case KindLogical:
		return NewLogical(v.LogicalAt(i)), nil
	case KindInt:
		return NewInt(v.IntAt(i)), nil
	case KindFloat:
		return NewFloat(v.FloatAt(i)), nil
	case KindString:
		return NewString(v.StringAt(i)), nil
	case KindObject:
		return NewObject(v.ClassName(), v.Ownership(), v.ObjectAt(i)), nil
	default:
		return Value{}, &TypeError{Msg: "cannot iterate over NULL"}
	}
}

func posErr(pos Pos, err error) error {
	switch e := err.(type) {
	case *TypeError:
		if e.Pos == (Pos{}) {
			e.Pos = pos
		}
		return e
	case *ShapeError:
		if e.Pos == (Pos{}) {
			e.Pos = pos
		}
		return e
	case *NumericError:
		if e.Pos == (Pos{}) {
			e.Pos = pos
		}
		return e
	case *DomainError:
		if e.Pos == (Pos{}) {
			e.Pos = pos
		}
		return e
	case *NameError:
		if e.Pos == (Pos{}) {
			e.Pos = pos
		}
		return e
	default:
		return err
	}
}

func (in *Interp) evalExpr(n *Node, sc *scope) Signal {
	switch n.Kind {
	case NodeLiteralNull, NodeLiteralLogical, NodeLiteralInt, NodeLiteralFloat, NodeLiteralString:
		return Normal(n.Cached)
	case NodeIdent:
		if v, ok := sc.get(n.Name); ok {
			return Normal(v)
		}
		if v, ok := in.constants[n.Name]; ok {
			return Normal(v)
		}
		return Raise(&NameError{Pos: n.Pos(), Name: n.Name})
	case NodeRange:
		a := in.evalExpr(n.Children[0], sc)
		if a.Flow != NoFlow {
			return a
		}
		b := in.evalExpr(n.Children[1], sc)
		if b.Flow != NoFlow {
			return b
		}
		v, err := rangeOp(n.Pos(), a.Value, b.Value)
		if err != nil {
			return Raise(err)
		}
		return Normal(v)
	case NodeUnary:
		operand := in.evalExpr(n.Children[0], sc)
		if operand.Flow != NoFlow {
			return operand
		}
		var v Value
		var err error
		if n.Op == "-" {
			v, err = negate(n.Pos(), operand.Value)
		} else {
			v, err = not(n.Pos(), operand.Value)
		}
		if err != nil {
			return Raise(err)
		}
		return Normal(v)
	case NodeBinary:
		a := in.evalExpr(n.Children[0], sc)
		if a.Flow != NoFlow {
			return a
		}
		b := in.evalExpr(n.Children[1], sc)
		if b.Flow != NoFlow {
			return b
		}
		v, err := in.applyBinary(n.Pos(), n.Op, a.Value, b.Value)
		if err != nil {
			return Raise(err)
		}
		return Normal(v)
	case NodeAssign:
		rhs := in.evalExpr(n.Children[1], sc)
		if rhs.Flow != NoFlow {
			return rhs
		}
		if err := in.assign(n.Children[0], rhs.Value, sc); err != nil {
			return Raise(err)
		}
		return Normal(rhs.Value.WithInvisible(true))
	case NodeIndex:
		recv := in.evalExpr(n.Children[0], sc)
		if recv.Flow != NoFlow {
			return recv
		}
		idx := in.evalExpr(n.Children[1], sc)
		if idx.Flow != NoFlow {
			return idx
		}
		v, err := indexValue(n.Pos(), recv.Value, idx.Value)
		if err != nil {
			return Raise(err)
		}
		return Normal(v)
	case NodeMember:
		recv := in.evalExpr(n.Children[0], sc)
		if recv.Flow != NoFlow {
			return recv
		}
		v, err := propertyValue(n.Pos(), recv.Value, n.Name)
		if err != nil {
			return Raise(err)
		}
		return Normal(v)
	case NodeCall:
		return in.evalCall(n, sc)
	case NodeMethodCall:
		return in.evalMethodCall(n, sc)
	case NodeBlock:
		return in.evalStmt(n, sc)
	default:
		return Raise(&TypeError{Pos: n.Pos(), Msg: "not an expression"})
	}
}

func (in *Interp) applyBinary(pos Pos, op string, a, b Value) (Value, error) {
	switch op {
	case "+", "-", "*", "/", "%", "^":
		return arithmetic(pos, op, a, b)
	case "==", "!=", "<", "<=", ">", ">=":
		return compare(pos, op, a, b)
	case "&", "&&", "|", "||":
		return logical(pos, op, a, b)
	default:
		return Value{}, &ParseError{Pos: pos, Msg: "unknown operator " + op}
	}
}

func (in *Interp) assign(target *Node, v Value, sc *scope) error {
	switch target.Kind {
	case NodeIdent:
		if _, ok := in.constants[target.Name]; ok {
			return &NameError{Pos: target.Pos(), Name: target.Name}
		}
		sc.set(target.Name, v)
		return nil
	case NodeIndex:
		recv := in.evalExpr(target.Children[0], sc)
		if recv.Flow == ExceptionFlow {
			return recv.Err
		}
		idx := in.evalExpr(target.Children[1], sc)
		if idx.Flow == ExceptionFlow {
			return idx.Err
		}
		updated, err := assignIndex(target.Pos(), recv.Value, idx.Value, v)
		if err != nil {
			return err
		}
		return in.assign(target.Children[0], updated, sc)
	case NodeMember:
		recv := in.evalExpr(target.Children[0], sc)
		if recv.Flow == ExceptionFlow {
			return recv.Err
		}
		if recv.Value.Kind() != KindObject {
			return &TypeError{Pos: target.Pos(), Msg: "cannot set a property on a non-object value"}
		}
		for _, o := range recv.Value.Objects() {
			if err := o.SetProperty(target.Name, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return &ParseError{Pos: target.Pos(), Msg: "invalid assignment target"}
	}
}

func (in *Interp) evalCall(n *Node, sc *scope) Signal {
	args := make([]Value, 0, len(n.Children))
	for _, c := range n.Children {
		sig := in.evalExpr(c, sc)
		if sig.Flow != NoFlow {
			return sig
		}
		args = append(args, sig.Value)
	}
	if b, ok := in.builtins[n.Name]; ok {
		prev := in.curScope
		in.curScope = sc
		v, err := b.call(in, n.Pos(), args)
		in.curScope = prev
		if err != nil {
			return Raise(err)
		}
		return Normal(v)
	}
	if fn, ok := in.functions[n.Name]; ok {
		return in.callUserFunction(fn, n.Pos(), args)
	}
	return Raise(&NameError{Pos: n.Pos(), Name: n.Name})
}

func (in *Interp) callUserFunction(fn *UserFunction, pos Pos, args []Value) Signal {
	in.calls++
	if in.calls > in.maxCalls {
		return Raise(&DomainError{Pos: pos, Msg: "call depth or iteration budget exceeded"})
	}
	if len(args) != len(fn.Params) {
		return Raise(&TypeError{Pos: pos, Msg: fmt.Sprintf("%s: expected %d arguments, got %d", fn.Name, len(fn.Params), len(args))})
	}
	frame := newScope(in.global)
	for i, p := range fn.Params {
		frame.define(p, args[i])
	}
	sig := in.evalStmt(fn.Body, frame)
	if sig.Flow == ReturnFlow {
		return Normal(sig.Value)
	}
	if sig.Flow == ExceptionFlow {
		return sig
	}
	return Normal(Null)
}

func (in *Interp) evalMethodCall(n *Node, sc *scope) Signal {
	recv := in.evalExpr(n.Children[0], sc)
	if recv.Flow != NoFlow {
		return recv
	}
	if recv.Value.Kind() != KindObject || recv.Value.Len() != 1 {
		return Raise(&TypeError{Pos: n.Pos(), Msg: "method call requires a singleton object receiver"})
	}
	obj := recv.Value.ObjectAt(0)
	b, ok := obj.Method(n.Name)
	if !ok {
		return Raise(&NameError{Pos: n.Pos(), Name: n.Name})
	}
	args := make([]Value, 0, len(n.Children)-1)
	for _, c := range n.Children[1:] {
		sig := in.evalExpr(c, sc)
		if sig.Flow != NoFlow {
			return sig
		}
		args = append(args, sig.Value)
	}
	prev := in.curScope
	in.curScope = sc
	v, err := b.call(in, n.Pos(), args)
	in.curScope = prev
	if err != nil {
		return Raise(err)
	}
	return Normal(v)
}

func indexValue(pos Pos, recv, idx Value) (Value, error) {
	if idx.Kind() == KindNull {
		if recv.Kind() == KindNull {
			return Null, nil
		}
		return Value{}, &TypeError{Pos: pos, Msg: "NULL index on a non-NULL value"}
	}
	if idx.Kind() == KindLogical {
		if idx.Len() != recv.Len() {
			return Value{}, &ShapeError{Pos: pos, Left: recv.Len(), Right: idx.Len()}
		}
		var ints []int64
		for i, b := range idx.Logicals() {
			if b {
				ints = append(ints, int64(i))
			}
		}
		idx = NewInt(ints...)
	}
	if idx.Kind() == KindFloat {
		floats := idx.Floats()
		ints := make([]int64, len(floats))
		for i, f := range floats {
			ints[i] = int64(f)
		}
		idx = NewInt(ints...)
	}
	if idx.Kind() != KindInt {
		return Value{}, &TypeError{Pos: pos, Msg: "index must be integer, float, or logical"}
	}
	if idx.Len() == 0 {
		return emptyOfKind(recv), nil
	}
	switch recv.Kind() {
	case KindLogical:
		out := make([]bool, idx.Len())
		for i, x := range idx.Ints() {
			if x < 0 || int(x) >= recv.Len() {
				return Value{}, &DomainError{Pos: pos, Msg: "index out of range"}
			}
			out[i] = recv.LogicalAt(int(x))
		}
		return NewLogical(out...), nil
	case KindInt:
		out := make([]int64, idx.Len())
		for i, x := range idx.Ints() {
			if x < 0 || int(x) >= recv.Len() {
				return Value{}, &DomainError{Pos: pos, Msg: "index out of range"}
			}
			out[i] = recv.IntAt(int(x))
		}
		return NewInt(out...), nil
	case KindFloat:
		out := make([]float64, idx.Len())
		for i, x := range idx.Ints() {
			if x < 0 || int(x) >= recv.Len() {
				return Value{}, &DomainError{Pos: pos, Msg: "index out of range"}
			}
			out[i] = recv.FloatAt(int(x))
		}
		return NewFloat(out...), nil
	case KindString:
		out := make([]string, idx.Len())
		for i, x := range idx.Ints() {
			if x < 0 || int(x) >= recv.Len() {
				return Value{}, &DomainError{Pos: pos, Msg: "index out of range"}
			}
			out[i] = recv.StringAt(int(x))
		}
		return NewString(out...), nil
	case KindObject:
		out := make([]HostObject, idx.Len())
		for i, x := range idx.Ints() {
			if x < 0 || int(x) >= recv.Len() {
				return Value{}, &DomainError{Pos: pos, Msg: "index out of range"}
			}
			out[i] = recv.ObjectAt(int(x))
		}
		return NewObject(recv.ClassName(), recv.Ownership(), out...), nil
	default:
		return Value{}, &TypeError{Pos: pos, Msg: "cannot index NULL"}
	}
}

// emptyOfKind returns a zero-length value of recv's kind, the result an
// empty index selects regardless of recv's actual contents (§4.3).
func emptyOfKind(recv Value) Value {
	switch recv.Kind() {
	case KindLogical:
		return NewLogical()
	case KindInt:
		return NewInt()
	case KindFloat:
		return NewFloat()
	case KindString:
		return NewString()
	case KindObject:
		return NewObject(recv.ClassName(), recv.Ownership())
	default:
		return Null
	}
}

func assignIndex(pos Pos, recv, idx, v Value) (Value, error) {
	if recv.Kind() == KindNull {
		recv = v
	}
	if recv.Kind() != v.Kind() && v.Kind() != KindNull {
		return Value{}, &TypeError{Pos: pos, Msg: fmt.Sprintf("cannot assign %s into %s vector", v.Kind(), recv.Kind())}
	}
	if idx.Kind() != KindInt {
		return Value{}, &TypeError{Pos: pos, Msg: "index must be integer"}
	}
	switch recv.Kind() {
	case KindLogical:
		out := append([]bool{}, recv.Logicals()...)
		for i, x := range idx.Ints() {
			out = growBool(out, int(x))
			out[x] = v.LogicalAt(i % v.Len())
		}
		return NewLogical(out...), nil
	case KindInt:
		out := append([]int64{}, recv.Ints()...)
		for i, x := range idx.Ints() {
			out = growInt(out, int(x))
			out[x] = v.IntAt(i % v.Len())
		}
		return NewInt(out...), nil
	case KindFloat:
		out := append([]float64{}, recv.Floats()...)
		for i, x := range idx.Ints() {
			out = growFloat(out, int(x))
			out[x] = v.FloatAt(i % v.Len())
		}
		return NewFloat(out...), nil
	case KindString:
		out := append([]string{}, recv.Strings()...)
		for i, x := range idx.Ints() {
			out = growString(out, int(x))
			out[x] = v.StringAt(i % v.Len())
		}
		return NewString(out...), nil
	default:
		return Value{}, &TypeError{Pos: pos, Msg: "cannot index-assign into this type"}
	}
}

func growBool(s []bool, n int) []bool {
	for len(s) <= n {
		s = append(s, false)
	}
	return s
}
func growInt(s []int64, n int) []int64 {
	for len(s) <= n {
		s = append(s, 0)
	}
	return s
}
func growFloat(s []float64, n int) []float64 {
	for len(s) <= n {
		s = append(s, 0)
	}
	return s
}
func growString(s []string, n int) []string {
	for len(s) <= n {
		s = append(s, "")
	}
	return s
}

func propertyValue(pos Pos, recv Value, name string) (Value, error) {
	if recv.Kind() != KindObject {
		return Value{}, &TypeError{Pos: pos, Msg: fmt.Sprintf("cannot access property %q on a %s value", name, recv.Kind())}
	}
	if recv.Len() == 1 {
		v, ok := recv.ObjectAt(0).Property(name)
		if !ok {
			return Value{}, &NameError{Pos: pos, Name: name}
		}
		return v, nil
	}
	var acc Value
	for i, o := range recv.Objects() {
		v, ok := o.Property(name)
		if !ok {
			return Value{}, &NameError{Pos: pos, Name: name}
		}
		if i == 0 {
			acc = v
			continue
		}
		merged, err := Concat(acc, v)
		if err != nil {
			return Value{}, err
		}
		acc = merged
	}
	return acc, nil
}

package eidos

import "testing"

func evalOK(t *testing.T, src string) Value {
	t.Helper()
	in := NewInterp()
	v, err := in.Eval(src)
	if err != nil {
		t.Fatalf("Eval(%q): unexpected error: %v", src, err)
	}
	return v
}

func TestSumOfRange(t *testing.T) {
	v := evalOK(t, "sum(1:100);")
	if v.Kind() != KindInt || v.IntAt(0) != 5050 {
		t.Errorf("sum(1:100) = %s, want 5050", v.String())
	}
}

func TestArithmeticPromotion(t *testing.T) {
	v := evalOK(t, "3 / 2;")
	if v.Kind() != KindFloat {
		t.Errorf("3 / 2 should promote to float, got %s", v.Kind())
	}
	if v.FloatAt(0) != 1.5 {
		t.Errorf("3 / 2 = %v, want 1.5", v.FloatAt(0))
	}
}

func TestIntegerArithmeticStaysInt(t *testing.T) {
	v := evalOK(t, "3 + 4;")
	if v.Kind() != KindInt || v.IntAt(0) != 7 {
		t.Errorf("3 + 4 = %s, want integer 7", v.String())
	}
}

func TestBroadcastShapeError(t *testing.T) {
	in := NewInterp()
	_, err := in.Eval("c(1,2,3) + c(1,2);")
	if err == nil {
		t.Fatal("expected a shape error for mismatched vector lengths")
	}
	if _, ok := err.(*ShapeError); !ok {
		t.Errorf("got %T, want *ShapeError", err)
	}
}

func TestIfElse(t *testing.T) {
	v := evalOK(t, "if (1 < 2) { 10; } else { 20; }")
	if v.IntAt(0) != 10 {
		t.Errorf("if (1 < 2) ... = %s, want 10", v.String())
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	v := evalOK(t, "x = 0; i = 0; while (i < 5) { x = x + i; i = i + 1; } x;")
	if v.IntAt(0) != 10 {
		t.Errorf("accumulated sum = %s, want 10", v.String())
	}
}

func TestForLoopOverRange(t *testing.T) {
	v := evalOK(t, "total = 0; for (i in 1:4) { total = total + i; } total;")
	if v.IntAt(0) != 10 {
		t.Errorf("for-loop sum = %s, want 10", v.String())
	}
}

func TestBreakExitsLoop(t *testing.T) {
	v := evalOK(t, "x = 0; for (i in 1:10) { if (i == 5) { break; } x = i; } x;")
	if v.IntAt(0) != 4 {
		t.Errorf("break result = %s, want 4", v.String())
	}
}

func TestNextSkipsIteration(t *testing.T) {
	v := evalOK(t, "x = 0; for (i in 1:5) { if (i % 2 == 0) { next; } x = x + i; } x;")
	if v.IntAt(0) != 9 {
		t.Errorf("next-skip sum = %s, want 9 (1+3+5)", v.String())
	}
}

func TestUserFunctionReturn(t *testing.T) {
	v := evalOK(t, "function square(x) { return x * x; } square(7);")
	if v.IntAt(0) != 49 {
		t.Errorf("square(7) = %s, want 49", v.String())
	}
}

func TestVectorIndexAndAssign(t *testing.T) {
	v := evalOK(t, "x = c(1,2,3); x[1] = 99; x;")
	if v.String() != "1 99 3" {
		t.Errorf("x after index assignment = %q, want %q", v.String(), "1 99 3")
	}
}

func TestMatchFindsFirstIndex(t *testing.T) {
	v := evalOK(t, `match(c("b","d"), c("a","b","c"));`)
	if v.String() != "1 -1" {
		t.Errorf("match(...) = %q, want %q", v.String(), "1 -1")
	}
}

func TestUndefinedNameRaisesNameError(t *testing.T) {
	in := NewInterp()
	_, err := in.Eval("nonexistent;")
	if _, ok := err.(*NameError); !ok {
		t.Fatalf("got %T (%v), want *NameError", err, err)
	}
}

func TestDivisionByZeroRaisesNumericError(t *testing.T) {
	in := NewInterp()
	_, err := in.Eval("1 / 0;")
	if _, ok := err.(*NumericError); !ok {
		t.Fatalf("got %T (%v), want *NumericError", err, err)
	}
}

func TestConcatPromotesIntToFloat(t *testing.T) {
	v := evalOK(t, "c(1, 2.5);")
	if v.Kind() != KindFloat {
		t.Errorf("c(1, 2.5) should promote to float, got %s", v.Kind())
	}
	if v.String() != "1 2.5" {
		t.Errorf("c(1, 2.5) = %q, want %q", v.String(), "1 2.5")
	}
}

func TestStringConcatenationStringifiesOtherOperand(t *testing.T) {
	v := evalOK(t, `"x = " + 5;`)
	if v.Kind() != KindString || v.StringAt(0) != "x = 5" {
		t.Errorf(`"x = " + 5 = %s, want "x = 5"`, v.String())
	}
}

func TestNullIndexOnNullYieldsNull(t *testing.T) {
	v := evalOK(t, "NULL[NULL];")
	if v.Kind() != KindNull {
		t.Errorf("NULL[NULL] = %s, want NULL", v.String())
	}
}

func TestFloatIndexTruncates(t *testing.T) {
	v := evalOK(t, "c(10,20,30)[1.9];")
	if v.IntAt(0) != 20 {
		t.Errorf("c(10,20,30)[1.9] = %s, want 20", v.String())
	}
}

func TestEmptyIndexYieldsEmptyOfSameKind(t *testing.T) {
	v := evalOK(t, "c(1,2,3)[c(1,2,3) > 5];")
	if v.Kind() != KindInt || v.Len() != 0 {
		t.Errorf("c(1,2,3)[c(1,2,3) > 5] = %s (%s), want an empty int vector", v.String(), v.Kind())
	}
}

func TestDefineConstantProtectsName(t *testing.T) {
	in := NewInterp()
	if _, err := in.Eval("defineConstant('k', 42);"); err != nil {
		t.Fatalf("defineConstant: unexpected error: %v", err)
	}
	if _, err := in.Eval("k = 1;"); err == nil {
		t.Fatal("assigning to a defined constant should raise")
	}
	if _, err := in.Eval("defineConstant('k', 43);"); err == nil {
		t.Fatal("redefining an existing constant should raise")
	}
}

func TestRmRefusesConstants(t *testing.T) {
	in := NewInterp()
	if _, err := in.Eval("defineConstant('k', 1);"); err != nil {
		t.Fatalf("defineConstant: unexpected error: %v", err)
	}
	if _, err := in.Eval("rm('k');"); err == nil {
		t.Fatal("rm on a constant should raise")
	}
}

func TestApplyBindsApplyValue(t *testing.T) {
	v := evalOK(t, `apply(1:3, "applyValue * 2;");`)
	if v.String() != "2 4 6" {
		t.Errorf("apply(1:3, applyValue*2) = %q, want %q", v.String(), "2 4 6")
	}
}

func TestExecuteLambdaRunsInCurrentScope(t *testing.T) {
	v := evalOK(t, `x = 10; executeLambda("x = x + 1;"); x;`)
	if v.IntAt(0) != 11 {
		t.Errorf("executeLambda result = %s, want 11", v.String())
	}
}

func TestDoCallInvokesBuiltinByName(t *testing.T) {
	v := evalOK(t, `doCall("sum", 1:4);`)
	if v.IntAt(0) != 10 {
		t.Errorf("doCall(sum, 1:4) = %s, want 10", v.String())
	}
}

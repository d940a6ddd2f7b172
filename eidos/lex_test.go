package eidos

import "testing"

func TestLexBasicTokens(t *testing.T) {
	toks, err := Lex(`x = 1 + 2.5 * "hi"; // trailing comment`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []TokenKind{TokIdent, TokOp, TokInt, TokOp, TokFloat, TokOp, TokString, TokOp, TokEOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLexUnterminatedStringFails(t *testing.T) {
	_, err := Lex(`"unterminated`)
	if err == nil {
		t.Fatal("expected a tokenize error")
	}
	if _, ok := err.(*TokenizeError); !ok {
		t.Errorf("got %T, want *TokenizeError", err)
	}
}

func TestLexKeywordsVsIdentifiers(t *testing.T) {
	toks, err := Lex("if iffy")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if toks[0].Kind != TokKeyword {
		t.Errorf("\"if\" should lex as a keyword, got %v", toks[0].Kind)
	}
	if toks[1].Kind != TokIdent {
		t.Errorf("\"iffy\" should lex as an identifier, got %v", toks[1].Kind)
	}
}

func TestLexSingleQuotedString(t *testing.T) {
	toks, err := Lex(`'hi\'there'`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if toks[0].Kind != TokString || toks[0].SVal != "hi'there" {
		t.Errorf("single-quoted string = %+v, want SVal %q", toks[0], "hi'there")
	}
}

func TestLexBlockComment(t *testing.T) {
	toks, err := Lex("1 /* a comment\nspanning lines */ + 2")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []TokenKind{TokInt, TokOp, TokInt, TokEOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(kinds), kinds, len(want), want)
	}
}

func TestLexHeredoc(t *testing.T) {
	toks, err := Lex("<<hello \\n world>>")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if toks[0].Kind != TokString || toks[0].SVal != "hello \\n world" {
		t.Errorf("heredoc = %+v, want literal SVal %q", toks[0], "hello \\n world")
	}
}

func TestLexExponentStillIntegerStaysInt(t *testing.T) {
	toks, err := Lex("1e2")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if toks[0].Kind != TokInt || toks[0].IVal != 100 {
		t.Errorf("1e2 = %+v, want int 100", toks[0])
	}
}

func TestLexExponentFractionalBecomesFloat(t *testing.T) {
	toks, err := Lex("1e-2")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if toks[0].Kind != TokFloat || toks[0].FVal != 0.01 {
		t.Errorf("1e-2 = %+v, want float 0.01", toks[0])
	}
}

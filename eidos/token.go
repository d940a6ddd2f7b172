package eidos

import "fmt"

// TokenKind enumerates the lexical categories produced by the tokenizer.
type TokenKind int

// Token kinds.
const (
	TokEOF TokenKind = iota
	TokIdent
	TokInt
	TokFloat
	TokString
	TokKeyword // if, else, for, while, do, next, break, return, function, NULL, T, F
	TokOp      // operators and punctuation: + - * / % ^ = == != < <= > >= & | ! : ( ) [ ] { } , ; . ...
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdent:
		return "identifier"
	case TokInt:
		return "integer literal"
	case TokFloat:
		return "float literal"
	case TokString:
		return "string literal"
	case TokKeyword:
		return "keyword"
	case TokOp:
		return "operator"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is one lexical unit with its source position and decoded
// literal value where applicable.
type Token struct {
	Kind   TokenKind
	Text   string // original source text, or the operator/keyword spelling
	SVal   string // decoded string literal value
	IVal   int64
	FVal   float64
	Pos    Pos
}

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"next": true, "break": true, "return": true, "function": true,
	"NULL": true, "T": true, "F": true, "in": true,
}

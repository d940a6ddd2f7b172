// Package eidostest provides small table-driven test helpers for
// exercising script-level behavior, mirroring the teacher's own
// testutils package: a case carries source text and a predicate over the
// result, rather than every test re-implementing its own comparison.
package eidostest

import (
	"testing"

	"github.com/slimcore/eidos/eidos"
)

// Case is one source-and-predicate pair.
type Case struct {
	Source string
	Pass   func(t *testing.T, v eidos.Value, err error)
}

// Run evaluates each case's source in a fresh interpreter and invokes
// its Pass predicate with the result.
func Run(t *testing.T, setup func(*eidos.Interp), cases []Case) {
	for _, c := range cases {
		c := c
		t.Run(c.Source, func(t *testing.T) {
			in := eidos.NewInterp()
			if setup != nil {
				setup(in)
			}
			v, err := in.Eval(c.Source)
			c.Pass(t, v, err)
		})
	}
}

// PassEqual builds a Pass predicate that requires the result to render
// identically to want and requires no error.
func PassEqual(want string) func(*testing.T, eidos.Value, error) {
	return func(t *testing.T, v eidos.Value, err error) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := v.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

// PassError builds a Pass predicate that requires evaluation to fail.
func PassError() func(*testing.T, eidos.Value, error) {
	return func(t *testing.T, v eidos.Value, err error) {
		if err == nil {
			t.Errorf("expected an error, got result %q", v.String())
		}
	}
}

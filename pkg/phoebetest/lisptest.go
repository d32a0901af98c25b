// Package phoebetest runs table driven tests of lisp expressions.
package phoebetest

import (
	"errors"
	"io"
	"testing"

	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/heap"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/lisplib"
)

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by an eval.Interp.
type TestSequence []struct {
	Expr string // a lisp expression
	// Result is the printed result.  For an expression that fails Result is
	// the name of the error condition, as seen by catch-error, prefixed with
	// "error: ".
	Result string
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewInterp returns an interpreter with the standard library loaded.
func NewInterp(t testing.TB, opts ...eval.Option) *eval.Interp {
	t.Helper()
	interp, err := eval.New(opts...)
	if err != nil {
		t.Fatalf("Failed to initialize interpreter: %v", err)
	}
	if err := lisplib.LoadLibrary(interp); err != nil {
		t.Fatalf("Failed to load library: %v", err)
	}
	return interp
}

// Stress returns interpreter options that collect garbage at every
// allocation.
func Stress() []eval.Option {
	return []eval.Option{eval.WithHeapOptions(heap.WithStress(true))}
}

// RunTestSuite runs each TestSequence in tests on isolated interpreters.
func RunTestSuite(t *testing.T, tests TestSuite, opts ...eval.Option) {
	for i, test := range tests {
		interp := NewInterp(t, append([]eval.Option{eval.WithStderr(io.Discard)}, opts...)...)
		for j, expr := range test.TestSequence {
			result := Eval(interp, expr.Expr)
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
		}
		if interp.Stack().Height() != 0 {
			t.Errorf("test %d %q: call stack not empty", i, test.Name)
		}
		if interp.Heap().StackLen() != 0 {
			t.Errorf("test %d %q: value stack not empty", i, test.Name)
		}
	}
}

// Eval evaluates src in the global namespace of interp and returns the
// printed result or a description of the error.
func Eval(interp *eval.Interp, src string) string {
	v, err := interp.EvalString(src)
	if err != nil {
		var perr *lisp.ParseError
		if errors.As(err, &perr) {
			return "parse error: " + perr.Msg
		}
		return "error: " + lisp.ConditionName(err, interp.Symbols())
	}
	return interp.String(v)
}

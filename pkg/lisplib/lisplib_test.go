package lisplib_test

import (
	"bytes"
	"testing"

	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/phoebetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var libSuite = phoebetest.TestSuite{
	{"cons cells", phoebetest.TestSequence{
		{"(cons 1 2)", "(1 . 2)"},
		{"(cons 1 nil)", "(1)"},
		{"(cons 1 (cons 2 nil))", "(1 2)"},
		{"(car '(1 2))", "1"},
		{"(cdr '(1 2))", "(2)"},
		{"(car nil)", "nil"},
		{"(cdr nil)", "nil"},
		{"(car 1)", "error: type-error"},
		{"(cons 1)", "error: arg-count-error"},
		{"(defvar x (list 1 2))", "(1 2)"},
		{"(set-car! x 3)", "3"},
		{"x", "(3 2)"},
		{"(set-cdr! x 4)", "4"},
		{"x", "(3 . 4)"},
		{"(set-car! nil 1)", "error: type-error"},
	}},
	{"cyclic lists", phoebetest.TestSequence{
		{"(defvar c (list 1 2))", "(1 2)"},
		{"(set-cdr! (cdr c) c)", "(1 2 ...)"},
		{"c", "(1 2 ...)"},
		{"(length c)", "error: improper-list-error"},
		{"(progn (gc) (car (cdr (cdr c))))", "1"},
	}},
	{"lists", phoebetest.TestSequence{
		{"(list)", "nil"},
		{"(list 1 (list 2 3) 'a)", "(1 (2 3) a)"},
		{"(length nil)", "0"},
		{"(length '(1 2 3))", "3"},
		{"(length (cons 1 2))", "error: improper-list-error"},
		{"(length 1)", "error: type-error"},
		{"(null nil)", "true"},
		{"(null '(1))", "false"},
		{"(not nil)", "true"},
		{"(not false)", "true"},
		{"(not 0)", "false"},
	}},
	{"equality", phoebetest.TestSequence{
		{"(eq nil nil)", "true"},
		{"(eq 'a 'b)", "false"},
		{"(eq '(1) '(1))", "false"},
		{"(equal '(1) '(1))", "true"},
		{"(equal '(1 (2 . 3)) (list 1 (cons 2 3)))", "true"},
		{"(equal 1 1)", "true"},
		{"(equal 'a 'a)", "true"},
		{"(equal 1 'a)", "false"},
	}},
	{"funcall and apply", phoebetest.TestSequence{
		{"(funcall + 1 2 3)", "6"},
		{"(funcall (lambda (x) (* x x)) 4)", "16"},
		{"(apply + '(1 2 3))", "6"},
		{"(apply + 1 2 '(3 4))", "10"},
		{"(apply list 1 nil)", "(1)"},
		{"(apply +)", "error: arg-count-error"},
		{"(apply + 1)", "error: type-error"},
		{"(funcall 1)", "error: not-applicable-error"},
		{"(defun sum (&rest xs) (apply + xs))", "#<function sum>"},
		{"(sum 1 2 3 4)", "10"},
	}},
	{"arithmetic", phoebetest.TestSequence{
		{"(+)", "0"},
		{"(+ 1 2 3)", "6"},
		{"(*)", "1"},
		{"(* 2 3 4)", "24"},
		{"(- 5)", "-5"},
		{"(- 10 3 2)", "5"},
		{"(-)", "error: arg-count-error"},
		{"(/ 7 2)", "3"},
		{"(/ 2)", "0"},
		{"(/ 1 0)", "error: division-by-zero"},
		{"(mod 7 3)", "1"},
		{"(mod 7 0)", "error: division-by-zero"},
		{"(+ 1 'a)", "error: type-error"},
		{"(+ 1 nil)", "error: type-error"},
	}},
	{"comparison", phoebetest.TestSequence{
		{"(= 1 1 1)", "true"},
		{"(= 1 2)", "false"},
		{"(< 1 2 3)", "true"},
		{"(< 1 3 2)", "false"},
		{"(> 3 2 1)", "true"},
		{"(<= 1 1 2)", "true"},
		{"(>= 2 2 3)", "false"},
		{"(< 1)", "true"},
		{"(< 1 'a)", "error: type-error"},
	}},
	{"gensym", phoebetest.TestSequence{
		{"(gensym)", "gensym1"},
		{"(gensym 'tmp)", "tmp2"},
		{"(eq (gensym) (gensym))", "false"},
		{"(gensym 1)", "error: type-error"},
	}},
	{"errors", phoebetest.TestSequence{
		{"(error 'my-error)", "error: my-error"},
		{"(error 'my-error 'body)", "error: my-error"},
		{"(error 1)", "error: type-error"},
		{"(throw '(custom . 2))", "error: custom"},
		{"(throw 1)", "error: type-error"},
		{"(throw '(1 . 2))", "error: type-error"},
		{"(catch-error (error 'e (list 1 2)) c (cdr c))", "(1 2)"},
		{"(catch-error (progn (error 'first) (error 'second)) c (car c))", "first"},
		{"(catch-error (throw (catch-error (error 'e 1) c c)) d d)", "(e . 1)"},
	}},
	{"heap", phoebetest.TestSequence{
		{"(length (heap-stats))", "10"},
		{"(car (heap-stats))", ":live"},
		{"(> (car (cdr (heap-stats))) 0)", "true"},
		{"(>= (gc) 0)", "true"},
		{"(gc 1)", "error: arg-count-error"},
	}},
	{"debug", phoebetest.TestSequence{
		{"(debug '(1 2))", "(1 2)"},
		{"(debug)", "error: arg-count-error"},
	}},
}

func TestLibrary(t *testing.T) {
	phoebetest.RunTestSuite(t, libSuite)
}

func TestLibraryStress(t *testing.T) {
	phoebetest.RunTestSuite(t, libSuite, phoebetest.Stress()...)
}

func TestDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	interp := phoebetest.NewInterp(t, eval.WithStderr(&buf))
	v, err := interp.EvalString("(debug (list 1 'a)) (debug 3)")
	require.NoError(t, err)
	assert.Equal(t, "3", interp.String(v))
	assert.Equal(t, "(1 a)\n3\n", buf.String())
}

func TestBuiltinsPrint(t *testing.T) {
	interp := phoebetest.NewInterp(t)
	v, err := interp.EvalString("car")
	require.NoError(t, err)
	assert.Equal(t, "#<builtin car>", interp.String(v))
}

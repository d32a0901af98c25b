package eval_test

import (
	"testing"

	"github.com/bmatsuo/phoebe/pkg/phoebetest"
)

var evalSuite = phoebetest.TestSuite{
	{"self evaluating", phoebetest.TestSequence{
		{"1", "1"},
		{"-3", "-3"},
		{"true", "true"},
		{"false", "false"},
		{"nil", "nil"},
		{":keyword", ":keyword"},
		{"t", "true"},
		{"undefined", "error: unbound-symbol-error"},
	}},
	{"quote", phoebetest.TestSequence{
		{"'a", "a"},
		{"(quote (1 2))", "(1 2)"},
		{"'()", "nil"},
		{"''a", "(quote a)"},
		{"(quote)", "error: arg-count-error"},
	}},
	{"not applicable", phoebetest.TestSequence{
		{"(1 2 3)", "error: not-applicable-error"},
		{"('foo 1)", "error: not-applicable-error"},
		{"(nil)", "error: not-applicable-error"},
		{"(+ . 1)", "error: improper-list-error"},
	}},
	{"cond", phoebetest.TestSequence{
		{"(cond (false 1) (false 2))", "nil"},
		{"(cond (false 1) (true 2))", "2"},
		{"(cond)", "nil"},
		{"(cond (5))", "5"},
		{"(cond (nil 1) (t 2 3))", "3"},
		{"(cond (1 'a) (undefined 'b))", "a"},
		{"(cond 1)", "error: syntax-error"},
	}},
	{"if when unless", phoebetest.TestSequence{
		{"(if true 1 2)", "1"},
		{"(if nil 1 2)", "2"},
		{"(if false 1)", "nil"},
		{"(if 0 1 2)", "1"},
		{"(if)", "error: arg-count-error"},
		{"(when 1 2 3)", "3"},
		{"(when nil 2 3)", "nil"},
		{"(unless 1 2)", "nil"},
		{"(unless nil 2)", "2"},
		{"(progn)", "nil"},
		{"(progn 1 2 3)", "3"},
	}},
	{"let", phoebetest.TestSequence{
		{"(let ((x 1) (y x)) y)", "error: unbound-symbol-error"},
		{"(let ((x 1) (y 2)) (+ x y))", "3"},
		{"(defvar x 10)", "10"},
		{"(let ((x 1) (y x)) y)", "10"},
		{"(let ((x 1)) (let ((x 2)) x))", "2"},
		{"(let ((x 1)) x)", "1"},
		{"x", "10"},
		{"(let (a (b)) (list a b))", "(nil nil)"},
		{"(let ())", "nil"},
		{"(let)", "error: syntax-error"},
		{"(let (1) 1)", "error: syntax-error"},
		{"(let ((a 1 2)) a)", "error: syntax-error"},
	}},
	{"let*", phoebetest.TestSequence{
		{"(let* ((x 1) (y x)) y)", "1"},
		{"(let* ((x 1) (x (+ x 1))) x)", "2"},
		{"x", "error: unbound-symbol-error"},
	}},
	{"lambda", phoebetest.TestSequence{
		{"((lambda (x) (+ x 1)) 2)", "3"},
		{"(lambda (x) x)", "#<function>"},
		{"((lambda ()))", "nil"},
		{"((lambda () 1) 1)", "error: arg-count-error"},
		{"((lambda (a b) a) 1)", "error: arg-count-error"},
		{"(lambda (1) 1)", "error: syntax-error"},
		{"(lambda (a a) 1)", "error: syntax-error"},
		{"(lambda (a &rest) 1)", "error: syntax-error"},
		{"(lambda (:a) 1)", "error: syntax-error"},
		{"(lambda)", "error: syntax-error"},
	}},
	{"closures", phoebetest.TestSequence{
		{"(defun adder (n) (lambda (x) (+ x n)))", "#<function adder>"},
		{"(defvar add5 (adder 5))", "#<function>"},
		{"(add5 10)", "15"},
		{"(progn (gc) (add5 1))", "6"},
		{"(defun make-counter () (let ((n 0)) (lambda () (setf n (+ n 1)))))", "#<function make-counter>"},
		{"(defvar c (make-counter))", "#<function>"},
		{"(c)", "1"},
		{"(c)", "2"},
		{"(progn (gc) (c))", "3"},
		{"((make-counter))", "1"},
		{"(c)", "4"},
		{"n", "error: unbound-symbol-error"},
	}},
	{"defun setf", phoebetest.TestSequence{
		{"(defun f (x) (setf x (+ x 1)) x)", "#<function f>"},
		{"(f 1)", "2"},
		{"(defun fact (n) (if (< n 2) 1 (* n (fact (- n 1)))))", "#<function fact>"},
		{"(fact 10)", "3628800"},
		{"(defun 1 () 1)", "error: syntax-error"},
		{"(defun g)", "error: syntax-error"},
	}},
	{"setf", phoebetest.TestSequence{
		{"(setf undefined-var 1)", "error: unbound-symbol-error"},
		{"(boundp undefined-var)", "false"},
		{"(defvar x 1)", "1"},
		{"(let ((x 2)) (setf x 3) x)", "3"},
		{"x", "1"},
		{"(let ((y 2)) (setf x 5) y)", "2"},
		{"x", "5"},
		{"(defvar y 0)", "0"},
		{"(setf x 6 y 7)", "7"},
		{"(list x y)", "(6 7)"},
		{"(setf x)", "error: syntax-error"},
		{"(setf 1 2)", "error: syntax-error"},
		{"(setf (car x) 2)", "error: syntax-error"},
	}},
	{"defvar", phoebetest.TestSequence{
		{"(let ((a 1)) (defvar b 2) b)", "2"},
		{"(boundp b)", "false"},
		{"(defvar z)", "nil"},
		{"z", "nil"},
		{"(defvar z 3)", "3"},
		{"z", "3"},
		{"(defvar 1 2)", "error: syntax-error"},
		{"(defun h () (defvar inner 1) inner)", "#<function h>"},
		{"(h)", "1"},
		{"(boundp inner)", "false"},
	}},
	{"partial effects", phoebetest.TestSequence{
		{"(progn (defvar partial 1) (car 1))", "error: type-error"},
		{"partial", "1"},
	}},
	{"optional arguments", phoebetest.TestSequence{
		{"(defun opt (a &optional (b 10) c) (list a b c))", "#<function opt>"},
		{"(opt 1)", "(1 10 nil)"},
		{"(opt 1 2)", "(1 2 nil)"},
		{"(opt 1 2 3)", "(1 2 3)"},
		{"(opt)", "error: arg-count-error"},
		{"(opt 1 2 3 4)", "error: arg-count-error"},
		{"(defun opt2 (a &optional (b (+ a 1))) b)", "#<function opt2>"},
		{"(opt2 1)", "2"},
	}},
	{"rest arguments", phoebetest.TestSequence{
		{"(defun rst (a &rest r) (list a r))", "#<function rst>"},
		{"(rst 1)", "(1 nil)"},
		{"(rst 1 2 3)", "(1 (2 3))"},
		{"(rst)", "error: arg-count-error"},
	}},
	{"keyword arguments", phoebetest.TestSequence{
		{"(defun kw (&key (a 1) b) (list a b))", "#<function kw>"},
		{"(kw)", "(1 nil)"},
		{"(kw :b 2)", "(1 2)"},
		{"(kw :a 3 :b 4)", "(3 4)"},
		{"(kw :c 1)", "error: syntax-error"},
		{"(kw :a)", "error: syntax-error"},
		{"(kw 1 2)", "error: syntax-error"},
		{"(kw :a 1 :b 2 :a 3)", "error: arg-count-error"},
	}},
	{"boundp", phoebetest.TestSequence{
		{"(boundp car)", "true"},
		{"(boundp foo)", "false"},
		{"(let ((foo 1)) (boundp foo))", "true"},
		{"(boundp 1)", "error: syntax-error"},
	}},
	{"catch-error", phoebetest.TestSequence{
		{"(catch-error 5 e 0)", "5"},
		{"(catch-error (car 1) e e)", "(type-error . int)"},
		{"(catch-error (error 'my-error 42) e (cdr e))", "42"},
		{"(catch-error (error 'my-error) e (car e))", "my-error"},
		{"(catch-error undefined-thing e e)", "(unbound-symbol-error . undefined-thing)"},
		{"(catch-error (1 2) e e)", "(not-applicable-error . 1)"},
		{"(catch-error ((lambda ()) 1) e e)", "(arg-count-error . 1)"},
		{"(catch-error (/ 1 0) e (car e))", "division-by-zero"},
		{"(catch-error (throw '(oops . 1)) e e)", "(oops . 1)"},
		{"(catch-error (catch-error (error 'a 1) e (throw e)) e2 (car e2))", "a"},
		{"(catch-error (error 'a) e)", "nil"},
		{"e", "error: unbound-symbol-error"},
		{"(throw '(oops . 1))", "error: oops"},
		{"(error 'boom)", "error: boom"},
		{"(catch-error 1)", "error: arg-count-error"},
	}},
	{"namespaces", phoebetest.TestSequence{
		{"(make-namespace :name foo :contents ((a 1) (b (+ 1 1))))", "#<namespace foo>"},
		{"foo", "#<namespace foo>"},
		{"(nref foo a)", "1"},
		{"(setf (nref foo a) 3)", "3"},
		{"(nref foo a)", "3"},
		{"(setf (nref foo c) 3)", "error: unbound-symbol-error"},
		{"(with-namespace foo (+ a b))", "5"},
		{"(with-namespace foo (defvar c 10))", "10"},
		{"(nref foo c)", "10"},
		{"(boundp c)", "false"},
		{"(nref foo t)", "true"},
		{"(nref (make-namespace :parent nil) t)", "error: unbound-symbol-error"},
		{"(make-namespace)", "#<namespace>"},
		{"(make-namespace :bogus 1)", "error: syntax-error"},
		{"(make-namespace :name)", "error: syntax-error"},
		{"(make-namespace :parent 1)", "error: type-error"},
		{"(nref 1 a)", "error: type-error"},
		{"(with-namespace 1 2)", "error: type-error"},
		{"(let ((inner (make-namespace :parent foo))) (nref inner a))", "3"},
	}},
	{"equality", phoebetest.TestSequence{
		{"(eq 'a 'a)", "true"},
		{"(eq 1 1)", "true"},
		{"(eq (list 1) (list 1))", "false"},
		{"(equal (list 1 (list 2)) '(1 (2)))", "true"},
		{"(equal '(1 . 2) '(1 2))", "false"},
		{"(let ((x (list 1))) (eq x x))", "true"},
		{"(eq car car)", "true"},
		{"(eq true false)", "false"},
	}},
}

func TestEval(t *testing.T) {
	phoebetest.RunTestSuite(t, evalSuite)
}

func TestEvalStress(t *testing.T) {
	phoebetest.RunTestSuite(t, evalSuite, phoebetest.Stress()...)
}

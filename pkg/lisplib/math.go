package lisplib

import (
	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/lisp"
)

var mathBuiltins = []*eval.Primitive{
	{Name: "+", Formals: eval.Formals(eval.RestSymbol, "x"), Fn: builtinAdd},
	{Name: "*", Formals: eval.Formals(eval.RestSymbol, "x"), Fn: builtinMul},
	{Name: "-", Formals: eval.Formals("x", eval.RestSymbol, "y"), Fn: builtinSub},
	{Name: "/", Formals: eval.Formals("x", eval.RestSymbol, "y"), Fn: builtinDiv},
	{Name: "mod", Formals: eval.Formals("x", "y"), Fn: builtinMod},
	{Name: "=", Formals: eval.Formals("x", eval.RestSymbol, "y"), Fn: compare(func(a, b int64) bool { return a == b })},
	{Name: "<", Formals: eval.Formals("x", eval.RestSymbol, "y"), Fn: compare(func(a, b int64) bool { return a < b })},
	{Name: ">", Formals: eval.Formals("x", eval.RestSymbol, "y"), Fn: compare(func(a, b int64) bool { return a > b })},
	{Name: "<=", Formals: eval.Formals("x", eval.RestSymbol, "y"), Fn: compare(func(a, b int64) bool { return a <= b })},
	{Name: ">=", Formals: eval.Formals("x", eval.RestSymbol, "y"), Fn: compare(func(a, b int64) bool { return a >= b })},
}

func ints(args []lisp.LVal) ([]int64, error) {
	xs := make([]int64, len(args))
	for i, v := range args {
		x, err := getInt(v)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}

func builtinAdd(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	xs, err := ints(args)
	if err != nil {
		return lisp.Nil(), err
	}
	var sum int64
	for _, x := range xs {
		sum += x
	}
	return lisp.Int(sum), nil
}

func builtinMul(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	xs, err := ints(args)
	if err != nil {
		return lisp.Nil(), err
	}
	prod := int64(1)
	for _, x := range xs {
		prod *= x
	}
	return lisp.Int(prod), nil
}

func builtinSub(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	xs, err := ints(args)
	if err != nil {
		return lisp.Nil(), err
	}
	if len(xs) == 1 {
		return lisp.Int(-xs[0]), nil
	}
	diff := xs[0]
	for _, x := range xs[1:] {
		diff -= x
	}
	return lisp.Int(diff), nil
}

func builtinDiv(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	xs, err := ints(args)
	if err != nil {
		return lisp.Nil(), err
	}
	if len(xs) == 1 {
		xs = []int64{1, xs[0]}
	}
	quo := xs[0]
	for _, x := range xs[1:] {
		if x == 0 {
			return lisp.Nil(), lisp.ErrDivideByZero
		}
		quo /= x
	}
	return lisp.Int(quo), nil
}

func builtinMod(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	xs, err := ints(args)
	if err != nil {
		return lisp.Nil(), err
	}
	if xs[1] == 0 {
		return lisp.Nil(), lisp.ErrDivideByZero
	}
	return lisp.Int(xs[0] % xs[1]), nil
}

func compare(ok func(a, b int64) bool) eval.Fn {
	return func(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
		xs, err := ints(args)
		if err != nil {
			return lisp.Nil(), err
		}
		for i := 1; i < len(xs); i++ {
			if !ok(xs[i-1], xs[i]) {
				return lisp.False(), nil
			}
		}
		return lisp.True(), nil
	}
}

package lisplib

import (
	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/lisp"
)

var errorBuiltins = []*eval.Primitive{
	{Name: "error", Formals: eval.Formals("condition", eval.OptionalSymbol, "body"), Fn: builtinError},
	{Name: "throw", Formals: eval.Formals("condition"), Fn: builtinThrow},
}

// (error condition [body])
func builtinError(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	sym, err := getSymbol(args[0])
	if err != nil {
		return lisp.Nil(), err
	}
	id, _ := lisp.GetSymbol(sym)
	body := lisp.Nil()
	if len(args) > 1 {
		body = args[1]
	}
	return lisp.Nil(), &lisp.UserError{Condition: id, Body: body}
}

// (throw (condition . body)) signals a condition caught by catch-error.
func builtinThrow(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	h := interp.Heap()
	name, err := h.CAR(args[0])
	if err != nil {
		return lisp.Nil(), err
	}
	id, ok := lisp.GetSymbol(name)
	if !ok {
		return lisp.Nil(), &lisp.TypeMismatchError{Expected: lisp.LSymbol, Actual: name.Type()}
	}
	body, err := h.CDR(args[0])
	if err != nil {
		return lisp.Nil(), err
	}
	return lisp.Nil(), &lisp.UserError{Condition: id, Body: body}
}

// Package lisplib provides the builtin procedures of phoebe lisp.
package lisplib

import (
	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/lisp"
)

// LoadLibrary installs every builtin and constant into the global namespace
// of interp.
func LoadLibrary(interp *eval.Interp) error {
	for _, lib := range [][]*eval.Primitive{
		coreBuiltins,
		mathBuiltins,
		errorBuiltins,
		heapBuiltins,
	} {
		if err := interp.AddBuiltins(lib...); err != nil {
			return err
		}
	}
	t := interp.Symbols().Intern("t")
	return interp.Define(interp.GlobalNamespace(), t, lisp.True())
}

func getInt(v lisp.LVal) (int64, error) {
	x, ok := lisp.GetInt(v)
	if !ok {
		return 0, &lisp.TypeMismatchError{Expected: lisp.LInt, Actual: v.Type()}
	}
	return x, nil
}

func getSymbol(v lisp.LVal) (lisp.LVal, error) {
	if err := lisp.Expect(lisp.LSymbol, v); err != nil {
		return lisp.Nil(), err
	}
	return v, nil
}

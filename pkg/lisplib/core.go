package lisplib

import (
	"fmt"

	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

var coreBuiltins = []*eval.Primitive{
	{Name: "cons", Formals: eval.Formals("head", "tail"), Fn: builtinCons},
	{Name: "car", Formals: eval.Formals("lis"), Fn: builtinCAR},
	{Name: "cdr", Formals: eval.Formals("lis"), Fn: builtinCDR},
	{Name: "set-car!", Formals: eval.Formals("cell", "value"), Fn: builtinSetCAR},
	{Name: "set-cdr!", Formals: eval.Formals("cell", "value"), Fn: builtinSetCDR},
	{Name: "list", Formals: eval.Formals(eval.RestSymbol, "args"), Fn: builtinList},
	{Name: "length", Formals: eval.Formals("lis"), Fn: builtinLength},
	{Name: "null", Formals: eval.Formals("value"), Fn: builtinNull},
	{Name: "not", Formals: eval.Formals("value"), Fn: builtinNot},
	{Name: "eq", Formals: eval.Formals("a", "b"), Fn: builtinEq},
	{Name: "equal", Formals: eval.Formals("a", "b"), Fn: builtinEqual},
	{Name: "funcall", Formals: eval.Formals("fun", eval.RestSymbol, "args"), Fn: builtinFuncall},
	{Name: "apply", Formals: eval.Formals("fun", eval.RestSymbol, "args"), Fn: builtinApply},
	{Name: "gensym", Formals: eval.Formals(eval.OptionalSymbol, "prefix"), Fn: builtinGensym},
	{Name: "debug", Formals: eval.Formals("value"), Fn: builtinDebug},
}

func builtinCons(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	return interp.Heap().AllocCons(args[0], args[1])
}

func builtinCAR(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	if lisp.IsNil(args[0]) {
		return lisp.Nil(), nil
	}
	return interp.Heap().CAR(args[0])
}

func builtinCDR(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	if lisp.IsNil(args[0]) {
		return lisp.Nil(), nil
	}
	return interp.Heap().CDR(args[0])
}

func builtinSetCAR(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	if err := interp.Heap().SetCAR(args[0], args[1]); err != nil {
		return lisp.Nil(), err
	}
	return args[1], nil
}

func builtinSetCDR(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	if err := interp.Heap().SetCDR(args[0], args[1]); err != nil {
		return lisp.Nil(), err
	}
	return args[1], nil
}

func builtinList(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	return interp.Heap().List(args...)
}

func builtinLength(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	n, err := interp.Heap().Length(args[0])
	if err != nil {
		return lisp.Nil(), err
	}
	return lisp.Int(int64(n)), nil
}

func builtinNull(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	return lisp.Bool(lisp.IsNil(args[0])), nil
}

func builtinNot(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	return lisp.Bool(!lisp.IsTrue(args[0])), nil
}

func builtinEq(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	return lisp.Bool(lisp.Eq(args[0], args[1])), nil
}

func builtinEqual(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	return lisp.Bool(interp.Heap().Equal(args[0], args[1])), nil
}

func builtinFuncall(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	return interp.Apply(args[0], args[1:])
}

// (apply fun arg... lis)
func builtinApply(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	if len(args) < 2 {
		return lisp.Nil(), &lisp.ArityMismatchError{Min: 2, Max: -1, Received: len(args)}
	}
	last := args[len(args)-1]
	spread, err := interp.Heap().Slice(last)
	if err != nil {
		return lisp.Nil(), err
	}
	argv := make([]lisp.LVal, 0, len(args)-2+len(spread))
	argv = append(argv, args[1:len(args)-1]...)
	argv = append(argv, spread...)
	// the spread elements are reachable from last, which is rooted
	return interp.Apply(args[0], argv)
}

func builtinGensym(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	prefix := "gensym"
	if len(args) > 0 {
		sym, err := getSymbol(args[0])
		if err != nil {
			return lisp.Nil(), err
		}
		id, _ := lisp.GetSymbol(sym)
		prefix = interp.SymbolName(id)
	}
	g, ok := interp.Symbols().(symbol.Gensymer)
	if !ok {
		return lisp.Nil(), fmt.Errorf("gensym: symbol table cannot generate symbols")
	}
	return lisp.Symbol(g.Gensym(prefix)), nil
}

func builtinDebug(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	w := interp.Stderr()
	if _, err := interp.Format(w, args[0]); err != nil {
		return lisp.Nil(), err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return lisp.Nil(), err
	}
	return args[0], nil
}

package eval

import (
	"errors"

	"github.com/bmatsuo/phoebe/pkg/environ"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// specialForm evaluates the unevaluated argument list of a special form.  The
// form itself and ns are rooted by the caller.
type specialForm func(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error)

var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"quote":          opQuote,
		"progn":          opProgn,
		"if":             opIf,
		"when":           opWhen,
		"unless":         opUnless,
		"cond":           opCond,
		"let":            opLet,
		"let*":           opLetStar,
		"lambda":         opLambda,
		"defun":          opDefun,
		"defvar":         opDefvar,
		"setf":           opSetf,
		"boundp":         opBoundp,
		"catch-error":    opCatchError,
		"make-namespace": opMakeNamespace,
		"nref":           opNref,
		"with-namespace": opWithNamespace,
	}
}

// IsSpecialForm returns true if id names a special form.
func (interp *Interp) IsSpecialForm(id symbol.ID) bool {
	_, ok := interp.special[id]
	return ok
}

func opQuote(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	vals, err := interp.args(args, 1, 1)
	if err != nil {
		return lisp.Nil(), err
	}
	return vals[0], nil
}

func opProgn(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	return interp.evalBody(args, ns)
}

func opIf(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	vals, err := interp.args(args, 2, 3)
	if err != nil {
		return lisp.Nil(), err
	}
	test, err := interp.eval(vals[0], ns)
	if err != nil {
		return lisp.Nil(), err
	}
	if lisp.IsTrue(test) {
		return interp.eval(vals[1], ns)
	}
	if len(vals) == 3 {
		return interp.eval(vals[2], ns)
	}
	return lisp.Nil(), nil
}

func opWhen(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	return conditional(interp, args, ns, true)
}

func opUnless(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	return conditional(interp, args, ns, false)
}

func conditional(interp *Interp, args, ns lisp.LVal, when bool) (lisp.LVal, error) {
	test, body, err := interp.uncons(args)
	if err != nil {
		return lisp.Nil(), syntaxErr("conditional", "missing test")
	}
	v, err := interp.eval(test, ns)
	if err != nil {
		return lisp.Nil(), err
	}
	if lisp.IsTrue(v) != when {
		return lisp.Nil(), nil
	}
	return interp.evalBody(body, ns)
}

// (cond (test body...)...)
func opCond(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	clauses, err := interp.heap.Slice(args)
	if err != nil {
		return lisp.Nil(), err
	}
	for _, clause := range clauses {
		if clause.Type() != lisp.LCons {
			return lisp.Nil(), syntaxErr("cond", "clause is not a list")
		}
		test, body, err := interp.uncons(clause)
		if err != nil {
			return lisp.Nil(), err
		}
		v, err := interp.eval(test, ns)
		if err != nil {
			return lisp.Nil(), err
		}
		if !lisp.IsTrue(v) {
			continue
		}
		if lisp.IsNil(body) {
			return v, nil
		}
		return interp.evalBody(body, ns)
	}
	return lisp.Nil(), nil
}

type letBinding struct {
	name symbol.ID
	init lisp.LVal
}

func (interp *Interp) letBindings(form string, list lisp.LVal) ([]letBinding, error) {
	vals, err := interp.heap.Slice(list)
	if err != nil {
		return nil, syntaxErr(form, "bindings are not a list")
	}
	bindings := make([]letBinding, len(vals))
	for i, v := range vals {
		if id, ok := lisp.GetSymbol(v); ok {
			bindings[i] = letBinding{name: id}
			continue
		}
		pair, err := interp.heap.Slice(v)
		if err != nil || len(pair) < 1 || len(pair) > 2 {
			return nil, syntaxErr(form, "binding must be (name value)")
		}
		id, ok := lisp.GetSymbol(pair[0])
		if !ok {
			return nil, syntaxErr(form, "binding name is not a symbol")
		}
		bindings[i] = letBinding{name: id}
		if len(pair) == 2 {
			bindings[i].init = pair[1]
		}
	}
	return bindings, nil
}

// (let ((name value)...) body...)
//
// Every value is evaluated in ns before any name is bound.
func opLet(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	spec, body, err := interp.uncons(args)
	if err != nil {
		return lisp.Nil(), syntaxErr("let", "missing bindings")
	}
	bindings, err := interp.letBindings("let", spec)
	if err != nil {
		return lisp.Nil(), err
	}
	h := interp.heap
	vals := make([]lisp.LVal, 0, len(bindings))
	for _, b := range bindings {
		v, err := interp.eval(b.init, ns)
		if err != nil {
			return lisp.Nil(), err
		}
		h.Push(v)
		vals = append(vals, v)
	}
	frame, err := h.AllocNamespace(ns, 0)
	if err != nil {
		return lisp.Nil(), err
	}
	h.Push(frame)
	for i, b := range bindings {
		if err := environ.Define(h, frame, b.name, vals[i]); err != nil {
			return lisp.Nil(), err
		}
	}
	return interp.evalBody(body, frame)
}

// (let* ((name value)...) body...)
//
// Each value is evaluated in the new namespace after the names preceding it
// are bound.
func opLetStar(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	spec, body, err := interp.uncons(args)
	if err != nil {
		return lisp.Nil(), syntaxErr("let*", "missing bindings")
	}
	bindings, err := interp.letBindings("let*", spec)
	if err != nil {
		return lisp.Nil(), err
	}
	h := interp.heap
	frame, err := h.AllocNamespace(ns, 0)
	if err != nil {
		return lisp.Nil(), err
	}
	h.Push(frame)
	for _, b := range bindings {
		v, err := interp.eval(b.init, frame)
		if err != nil {
			return lisp.Nil(), err
		}
		if err := environ.Define(h, frame, b.name, v); err != nil {
			return lisp.Nil(), err
		}
	}
	return interp.evalBody(body, frame)
}

// (lambda formals body...)
func opLambda(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	formals, body, err := interp.uncons(args)
	if err != nil {
		return lisp.Nil(), syntaxErr("lambda", "missing parameter list")
	}
	return interp.closure(ns, formals, body, 0)
}

func (interp *Interp) closure(ns, formals, body lisp.LVal, name symbol.ID) (lisp.LVal, error) {
	if _, err := interp.parseFormals(formals); err != nil {
		return lisp.Nil(), err
	}
	if _, err := interp.heap.Length(body); err != nil {
		return lisp.Nil(), err
	}
	return interp.heap.AllocClosure(ns, formals, body, name)
}

// (defun name formals body...)
func opDefun(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	head, rest, err := interp.uncons(args)
	if err != nil {
		return lisp.Nil(), syntaxErr("defun", "missing name")
	}
	name, ok := lisp.GetSymbol(head)
	if !ok {
		return lisp.Nil(), syntaxErr("defun", "name is not a symbol")
	}
	if interp.IsSpecialForm(name) {
		return lisp.Nil(), syntaxErr("defun", "cannot redefine special form "+symbol.String(name, interp.symbols))
	}
	formals, body, err := interp.uncons(rest)
	if err != nil {
		return lisp.Nil(), syntaxErr("defun", "missing parameter list")
	}
	fn, err := interp.closure(ns, formals, body, name)
	if err != nil {
		return lisp.Nil(), err
	}
	if err := environ.Define(interp.heap, ns, name, fn); err != nil {
		return lisp.Nil(), err
	}
	return fn, nil
}

// (defvar name [value])
func opDefvar(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	vals, err := interp.args(args, 1, 2)
	if err != nil {
		return lisp.Nil(), err
	}
	name, ok := lisp.GetSymbol(vals[0])
	if !ok {
		return lisp.Nil(), syntaxErr("defvar", "name is not a symbol")
	}
	v := lisp.Nil()
	if len(vals) == 2 {
		v, err = interp.eval(vals[1], ns)
		if err != nil {
			return lisp.Nil(), err
		}
	}
	if err := environ.Define(interp.heap, ns, name, v); err != nil {
		return lisp.Nil(), err
	}
	return v, nil
}

// (setf place value...)
//
// A place is a symbol or (nref namespace symbol).  Each value is assigned to
// the nearest existing binding of its place.
func opSetf(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	vals, err := interp.heap.Slice(args)
	if err != nil {
		return lisp.Nil(), err
	}
	if len(vals) == 0 || len(vals)%2 != 0 {
		return lisp.Nil(), syntaxErr("setf", "expected place and value pairs")
	}
	h := interp.heap
	v := lisp.Nil()
	for i := 0; i < len(vals); i += 2 {
		target, name, err := interp.place(vals[i], ns)
		if err != nil {
			return lisp.Nil(), err
		}
		h.Push(target)
		v, err = interp.eval(vals[i+1], ns)
		if err != nil {
			return lisp.Nil(), err
		}
		if err := environ.Assign(h, target, name, v); err != nil {
			return lisp.Nil(), err
		}
	}
	return v, nil
}

// place resolves a setf place to the namespace where the search for its
// binding starts.
func (interp *Interp) place(place, ns lisp.LVal) (lisp.LVal, symbol.ID, error) {
	if id, ok := lisp.GetSymbol(place); ok {
		return ns, id, nil
	}
	if place.Type() == lisp.LCons {
		head, args, err := interp.uncons(place)
		if err != nil {
			return lisp.Nil(), 0, err
		}
		if id, ok := lisp.GetSymbol(head); ok && id == interp.sym.nref {
			return interp.nref(args, ns)
		}
	}
	return lisp.Nil(), 0, syntaxErr("setf", "place must be a symbol or nref form")
}

// (boundp symbol)
func opBoundp(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	vals, err := interp.args(args, 1, 1)
	if err != nil {
		return lisp.Nil(), err
	}
	id, ok := lisp.GetSymbol(vals[0])
	if !ok {
		return lisp.Nil(), syntaxErr("boundp", "argument is not a symbol")
	}
	bound, err := environ.Bound(interp.heap, ns, id)
	if err != nil {
		return lisp.Nil(), err
	}
	return lisp.Bool(bound), nil
}

// (catch-error expr var handler...)
//
// If evaluating expr signals an error the handlers are evaluated with var
// bound to the condition (name . body).  Running out of memory and stack
// overflow are not trapped.
func opCatchError(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	vals, err := interp.args(args, 2, -1)
	if err != nil {
		return lisp.Nil(), err
	}
	name, ok := lisp.GetSymbol(vals[1])
	if !ok {
		return lisp.Nil(), syntaxErr("catch-error", "variable is not a symbol")
	}
	v, err := interp.eval(vals[0], ns)
	if err == nil {
		return v, nil
	}
	if lisp.IsFatal(err) {
		return lisp.Nil(), err
	}
	cond, err := interp.condition(err)
	if err != nil {
		return lisp.Nil(), err
	}
	h := interp.heap
	h.Push(cond)
	frame, err := h.AllocNamespace(ns, 0)
	if err != nil {
		return lisp.Nil(), err
	}
	h.Push(frame)
	if err := environ.Define(h, frame, name, cond); err != nil {
		return lisp.Nil(), err
	}
	_, handlers, _ := interp.uncons(args)
	_, handlers, _ = interp.uncons(handlers)
	return interp.evalBody(handlers, frame)
}

// condition converts err into the value (name . body) seen by lisp code.
func (interp *Interp) condition(err error) (lisp.LVal, error) {
	var (
		user    *lisp.UserError
		unbound *lisp.UnboundSymbolError
		notfn   *lisp.NotApplicableError
		typ     *lisp.TypeMismatchError
		arity   *lisp.ArityMismatchError
	)
	body := lisp.Nil()
	switch {
	case errors.As(err, &user):
		return interp.heap.AllocCons(lisp.Symbol(user.Condition), user.Body)
	case errors.As(err, &unbound):
		body = lisp.Symbol(unbound.Symbol)
	case errors.As(err, &notfn):
		body = notfn.Value
	case errors.As(err, &typ):
		body = interp.Intern(typ.Actual.String())
	case errors.As(err, &arity):
		body = lisp.Int(int64(arity.Received))
	}
	interp.heap.Push(body)
	name := interp.Intern(lisp.ConditionName(err, interp.symbols))
	return interp.heap.AllocCons(name, body)
}

// (make-namespace [:name symbol] [:parent namespace] [:contents ((name value)...)])
//
// The parent defaults to the global namespace.  A named namespace is bound to
// its name in ns.
func opMakeNamespace(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	vals, err := interp.heap.Slice(args)
	if err != nil {
		return lisp.Nil(), err
	}
	if len(vals)%2 != 0 {
		return lisp.Nil(), syntaxErr("make-namespace", "odd number of keyword arguments")
	}
	var (
		name     symbol.ID
		parent   = interp.global
		contents []letBinding
	)
	h := interp.heap
	for i := 0; i < len(vals); i += 2 {
		kw, _ := lisp.GetSymbol(vals[i])
		switch {
		case kw == interp.sym.name:
			id, ok := lisp.GetSymbol(vals[i+1])
			if !ok {
				return lisp.Nil(), syntaxErr("make-namespace", "name is not a symbol")
			}
			name = id
		case kw == interp.sym.parent:
			parent, err = interp.eval(vals[i+1], ns)
			if err != nil {
				return lisp.Nil(), err
			}
			h.Push(parent)
		case kw == interp.sym.contents:
			contents, err = interp.letBindings("make-namespace", vals[i+1])
			if err != nil {
				return lisp.Nil(), err
			}
		default:
			return lisp.Nil(), syntaxErr("make-namespace", "unknown keyword "+interp.String(vals[i]))
		}
	}
	vs := make([]lisp.LVal, len(contents))
	for i, b := range contents {
		vs[i], err = interp.eval(b.init, ns)
		if err != nil {
			return lisp.Nil(), err
		}
		h.Push(vs[i])
	}
	made, err := h.AllocNamespace(parent, name)
	if err != nil {
		return lisp.Nil(), err
	}
	h.Push(made)
	for i, b := range contents {
		if err := environ.Define(h, made, b.name, vs[i]); err != nil {
			return lisp.Nil(), err
		}
	}
	if name != 0 {
		if err := environ.Define(h, ns, name, made); err != nil {
			return lisp.Nil(), err
		}
	}
	return made, nil
}

// (nref namespace symbol)
func opNref(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	target, name, err := interp.nref(args, ns)
	if err != nil {
		return lisp.Nil(), err
	}
	return environ.Lookup(interp.heap, target, name)
}

func (interp *Interp) nref(args, ns lisp.LVal) (lisp.LVal, symbol.ID, error) {
	vals, err := interp.args(args, 2, 2)
	if err != nil {
		return lisp.Nil(), 0, err
	}
	name, ok := lisp.GetSymbol(vals[1])
	if !ok {
		return lisp.Nil(), 0, syntaxErr("nref", "name is not a symbol")
	}
	target, err := interp.eval(vals[0], ns)
	if err != nil {
		return lisp.Nil(), 0, err
	}
	if err := lisp.Expect(lisp.LNamespace, target); err != nil {
		return lisp.Nil(), 0, err
	}
	return target, name, nil
}

// (with-namespace namespace body...)
func opWithNamespace(interp *Interp, args, ns lisp.LVal) (lisp.LVal, error) {
	expr, body, err := interp.uncons(args)
	if err != nil {
		return lisp.Nil(), syntaxErr("with-namespace", "missing namespace")
	}
	target, err := interp.eval(expr, ns)
	if err != nil {
		return lisp.Nil(), err
	}
	if err := lisp.Expect(lisp.LNamespace, target); err != nil {
		return lisp.Nil(), err
	}
	interp.heap.Push(target)
	return interp.evalBody(body, target)
}

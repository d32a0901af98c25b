package eval

import (
	"errors"

	"github.com/bmatsuo/phoebe/pkg/environ"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// eval is the dispatch loop.  Values held across any call that may allocate
// are kept on the heap's value stack.
func (interp *Interp) eval(expr, ns lisp.LVal) (lisp.LVal, error) {
	switch expr.Type() {
	case lisp.LSymbol:
		id, _ := lisp.GetSymbol(expr)
		if interp.isKeyword(id) {
			return expr, nil
		}
		return environ.Lookup(interp.heap, ns, id)
	case lisp.LCons:
		return interp.evalCons(expr, ns)
	default:
		return expr, nil
	}
}

func (interp *Interp) isKeyword(id symbol.ID) bool {
	kw, ok := interp.keywords[id]
	if !ok {
		kw = lisp.IsKeyword(interp.SymbolName(id))
		interp.keywords[id] = kw
	}
	return kw
}

func (interp *Interp) evalCons(expr, ns lisp.LVal) (lisp.LVal, error) {
	head, args, err := interp.uncons(expr)
	if err != nil {
		return lisp.Nil(), err
	}
	name, _ := lisp.GetSymbol(head)
	if err := interp.stack.Push(CallFrame{Name: name}); err != nil {
		return lisp.Nil(), interp.associate(err)
	}
	defer interp.stack.Pop()
	base := interp.heap.StackLen()
	defer interp.heap.Unwind(base)
	interp.heap.Push(expr, ns)

	v, err := interp.dispatch(head, args, ns)
	if err != nil {
		return lisp.Nil(), interp.associate(err)
	}
	return v, nil
}

func (interp *Interp) dispatch(head, args, ns lisp.LVal) (lisp.LVal, error) {
	if name, ok := lisp.GetSymbol(head); ok {
		if form, ok := interp.special[name]; ok {
			interp.stack.Top().Kind = FrameSpecial
			return form(interp, args, ns)
		}
	}
	fn, err := interp.eval(head, ns)
	if err != nil {
		return lisp.Nil(), err
	}
	interp.heap.Push(fn)
	switch fn.Type() {
	case lisp.LClosure, lisp.LBuiltin:
	default:
		return lisp.Nil(), &lisp.NotApplicableError{Value: fn}
	}
	argv, err := interp.evalList(args, ns)
	if err != nil {
		return lisp.Nil(), err
	}
	return interp.apply(fn, argv)
}

// evalList evaluates each element of list from left to right and roots the
// results on the value stack.
func (interp *Interp) evalList(list, ns lisp.LVal) ([]lisp.LVal, error) {
	var vals []lisp.LVal
	for !lisp.IsNil(list) {
		car, cdr, err := interp.uncons(list)
		if err != nil {
			return nil, err
		}
		v, err := interp.eval(car, ns)
		if err != nil {
			return nil, err
		}
		interp.heap.Push(v)
		vals = append(vals, v)
		list = cdr
	}
	return vals, nil
}

// evalBody evaluates a list of expressions and returns the value of the last
// one, or nil if the list is empty.
func (interp *Interp) evalBody(body, ns lisp.LVal) (lisp.LVal, error) {
	v := lisp.Nil()
	for !lisp.IsNil(body) {
		car, cdr, err := interp.uncons(body)
		if err != nil {
			return lisp.Nil(), err
		}
		v, err = interp.eval(car, ns)
		if err != nil {
			return lisp.Nil(), err
		}
		body = cdr
	}
	return v, nil
}

// uncons copies the elements of a cell in a list.  Pointers into the heap
// must not be held across allocations.
func (interp *Interp) uncons(list lisp.LVal) (car, cdr lisp.LVal, err error) {
	c, err := interp.heap.Cons(list)
	if err != nil {
		var typ *lisp.TypeMismatchError
		if errors.As(err, &typ) {
			return lisp.Nil(), lisp.Nil(), &lisp.ImproperListError{Value: list}
		}
		return lisp.Nil(), lisp.Nil(), err
	}
	return c.CAR, c.CDR, nil
}

// args returns the elements of the argument list of a special form.
func (interp *Interp) args(list lisp.LVal, min, max int) ([]lisp.LVal, error) {
	vals, err := interp.heap.Slice(list)
	if err != nil {
		return nil, err
	}
	if len(vals) < min || (max >= 0 && len(vals) > max) {
		return nil, &lisp.ArityMismatchError{Min: min, Max: max, Received: len(vals)}
	}
	return vals, nil
}

func (interp *Interp) apply(fn lisp.LVal, args []lisp.LVal) (lisp.LVal, error) {
	switch fn.Type() {
	case lisp.LBuiltin:
		p, ok := GetPrimitive(fn)
		if !ok {
			return lisp.Nil(), &lisp.NotApplicableError{Value: fn}
		}
		if top := interp.stack.Top(); top != nil {
			top.Kind = FrameBuiltin
			if top.Name == 0 {
				top.Name, _, _ = lisp.GetBuiltin(fn)
			}
		}
		if err := p.checkArity(len(args)); err != nil {
			return lisp.Nil(), err
		}
		return p.Fn(interp, args)
	case lisp.LClosure:
		return interp.callClosure(fn, args)
	default:
		return lisp.Nil(), &lisp.NotApplicableError{Value: fn}
	}
}

func (interp *Interp) callClosure(fn lisp.LVal, args []lisp.LVal) (lisp.LVal, error) {
	h := interp.heap
	base := h.StackLen()
	defer h.Unwind(base)
	h.Push(fn)
	c, err := h.Closure(fn)
	if err != nil {
		return lisp.Nil(), err
	}
	if top := interp.stack.Top(); top != nil {
		top.Kind = FrameClosure
		if c.Name != 0 {
			top.Name = c.Name
		}
	}
	ll, err := interp.parseFormals(c.Formals)
	if err != nil {
		return lisp.Nil(), err
	}
	frame, err := h.AllocNamespace(c.Env, 0)
	if err != nil {
		return lisp.Nil(), err
	}
	h.Push(frame)
	if err := interp.bind(ll, frame, args); err != nil {
		return lisp.Nil(), err
	}
	return interp.evalBody(c.Body, frame)
}

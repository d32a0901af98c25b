package heap

import (
	"github.com/bmatsuo/phoebe/pkg/environ"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// AllocCons returns a new cons cell.
func (h *Heap) AllocCons(car, cdr lisp.LVal) (lisp.LVal, error) {
	hd, o, err := h.alloc(lisp.LCons, car, cdr)
	if err != nil {
		return lisp.Nil(), err
	}
	o.cons = ConsData{CAR: car, CDR: cdr}
	return lisp.Ref(lisp.LCons, hd), nil
}

// AllocClosure returns a new closure capturing the namespace env.
func (h *Heap) AllocClosure(env, formals, body lisp.LVal, name symbol.ID) (lisp.LVal, error) {
	if err := lisp.Expect(lisp.LNamespace, env); err != nil {
		return lisp.Nil(), err
	}
	hd, o, err := h.alloc(lisp.LClosure, env, formals, body)
	if err != nil {
		return lisp.Nil(), err
	}
	o.closure = &Closure{
		Name:    name,
		Env:     env,
		Formals: formals,
		Body:    body,
	}
	return lisp.Ref(lisp.LClosure, hd), nil
}

// AllocNamespace returns a new, empty namespace.  If parent is nil the
// namespace is a root namespace.
func (h *Heap) AllocNamespace(parent lisp.LVal, name symbol.ID) (lisp.LVal, error) {
	if !lisp.IsNil(parent) {
		if err := lisp.Expect(lisp.LNamespace, parent); err != nil {
			return lisp.Nil(), err
		}
	}
	hd, o, err := h.alloc(lisp.LNamespace, parent)
	if err != nil {
		return lisp.Nil(), err
	}
	o.frame = &environ.Frame{Name: name, Parent: parent}
	return lisp.Ref(lisp.LNamespace, hd), nil
}

// Cons returns the data of cons cell v.
func (h *Heap) Cons(v lisp.LVal) (*ConsData, error) {
	o, err := h.get(lisp.LCons, v)
	if err != nil {
		return nil, err
	}
	return &o.cons, nil
}

// CAR returns the first element of cons cell v.
func (h *Heap) CAR(v lisp.LVal) (lisp.LVal, error) {
	c, err := h.Cons(v)
	if err != nil {
		return lisp.Nil(), err
	}
	return c.CAR, nil
}

// CDR returns the second element of cons cell v.
func (h *Heap) CDR(v lisp.LVal) (lisp.LVal, error) {
	c, err := h.Cons(v)
	if err != nil {
		return lisp.Nil(), err
	}
	return c.CDR, nil
}

// SetCAR replaces the first element of cons cell v.
func (h *Heap) SetCAR(v, car lisp.LVal) error {
	c, err := h.Cons(v)
	if err != nil {
		return err
	}
	c.CAR = car
	return nil
}

// SetCDR replaces the second element of cons cell v.
func (h *Heap) SetCDR(v, cdr lisp.LVal) error {
	c, err := h.Cons(v)
	if err != nil {
		return err
	}
	c.CDR = cdr
	return nil
}

// Closure returns the data of closure v.
func (h *Heap) Closure(v lisp.LVal) (*Closure, error) {
	o, err := h.get(lisp.LClosure, v)
	if err != nil {
		return nil, err
	}
	return o.closure, nil
}

// Frame returns the data of namespace v.  Frame makes Heap an
// environ.Store.
func (h *Heap) Frame(v lisp.LVal) (*environ.Frame, error) {
	o, err := h.get(lisp.LNamespace, v)
	if err != nil {
		return nil, err
	}
	return o.frame, nil
}

var _ environ.Store = (*Heap)(nil)

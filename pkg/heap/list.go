package heap

import (
	"github.com/bmatsuo/phoebe/pkg/lisp"
)

// List returns a proper list containing vals.
func (h *Heap) List(vals ...lisp.LVal) (lisp.LVal, error) {
	return h.ListStar(lisp.Nil(), vals...)
}

// ListStar returns a list containing vals terminated by tail instead of nil.
func (h *Heap) ListStar(tail lisp.LVal, vals ...lisp.LVal) (lisp.LVal, error) {
	base := h.StackLen()
	defer h.Unwind(base)
	h.Push(vals...)
	lis := tail
	for i := len(vals) - 1; i >= 0; i-- {
		var err error
		lis, err = h.AllocCons(vals[i], lis)
		if err != nil {
			return lisp.Nil(), err
		}
	}
	return lis, nil
}

// Slice returns the elements of a proper list.  Slice returns an
// ImproperListError if the chain of conses is dotted or circular.
func (h *Heap) Slice(list lisp.LVal) ([]lisp.LVal, error) {
	var vals []lisp.LVal
	err := h.each(list, func(v lisp.LVal) error {
		vals = append(vals, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vals, nil
}

// Length returns the number of elements in a proper list.
func (h *Heap) Length(list lisp.LVal) (int, error) {
	n := 0
	err := h.each(list, func(lisp.LVal) error {
		n++
		return nil
	})
	return n, err
}

func (h *Heap) each(list lisp.LVal, fn func(lisp.LVal) error) error {
	if !lisp.IsNil(list) {
		if err := lisp.Expect(lisp.LCons, list); err != nil {
			return err
		}
	}
	// a proper list cannot have more cells than there are live objects
	limit := h.live
	for n := 0; !lisp.IsNil(list); n++ {
		if n >= limit || list.Type() != lisp.LCons {
			return &lisp.ImproperListError{Value: list}
		}
		c, err := h.Cons(list)
		if err != nil {
			return err
		}
		if err := fn(c.CAR); err != nil {
			return err
		}
		list = c.CDR
	}
	return nil
}

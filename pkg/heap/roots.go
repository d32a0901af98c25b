package heap

import (
	"github.com/bmatsuo/phoebe/pkg/lisp"
)

// Push roots values on the value stack.
func (h *Heap) Push(v ...lisp.LVal) {
	h.stack = append(h.stack, v...)
}

// StackLen returns the height of the value stack.  Callers record it before
// pushing values so they can Unwind back to it.
func (h *Heap) StackLen() int {
	return len(h.stack)
}

// Unwind pops values from the stack until it has height n.  Unwind panics if
// the stack is already shorter than n.
func (h *Heap) Unwind(n int) {
	if n > len(h.stack) {
		panic("heap: unwind above the top of the stack")
	}
	for i := n; i < len(h.stack); i++ {
		h.stack[i] = lisp.Nil()
	}
	h.stack = h.stack[:n]
}

// Pin makes v a root until the returned function is called.  Pins of the
// same object nest.  Pinning a value that is not a heap object does nothing.
func (h *Heap) Pin(v lisp.LVal) (release func()) {
	hd, ok := lisp.GetHandle(v)
	if !ok {
		return func() {}
	}
	p := h.pins[hd]
	if p == nil {
		p = &pin{v: v}
		h.pins[hd] = p
	}
	p.n++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		p.n--
		if p.n == 0 {
			delete(h.pins, hd)
		}
	}
}

// Roots returns the current root set.  Values appear once for each time they
// are pushed but only once regardless of how many times they are pinned.
func (h *Heap) Roots() []lisp.LVal {
	roots := make([]lisp.LVal, 0, len(h.stack)+len(h.pins))
	for _, v := range h.stack {
		if v.Type().IsHeap() {
			roots = append(roots, v)
		}
	}
	for _, p := range h.pins {
		roots = append(roots, p.v)
	}
	return roots
}

package heap

import (
	"github.com/bmatsuo/phoebe/pkg/lisp"
)

// Equal reports whether a and b are structurally equal.  Conses are equal
// when their elements are equal, all other values are compared with lisp.Eq.
// Circular structures compare equal when no difference is found before a
// pair of cells repeats.
func (h *Heap) Equal(a, b lisp.LVal) bool {
	type pair struct{ a, b lisp.Handle }
	seen := make(map[pair]bool)
	work := [][2]lisp.LVal{{a, b}}
	for len(work) > 0 {
		x, y := work[len(work)-1][0], work[len(work)-1][1]
		work = work[:len(work)-1]
		if lisp.Eq(x, y) {
			continue
		}
		if x.Type() != lisp.LCons || y.Type() != lisp.LCons {
			return false
		}
		hx, _ := lisp.GetHandle(x)
		hy, _ := lisp.GetHandle(y)
		if seen[pair{hx, hy}] {
			continue
		}
		seen[pair{hx, hy}] = true
		cx, err := h.Cons(x)
		if err != nil {
			return false
		}
		cy, err := h.Cons(y)
		if err != nil {
			return false
		}
		work = append(work, [2]lisp.LVal{cx.CDR, cy.CDR}, [2]lisp.LVal{cx.CAR, cy.CAR})
	}
	return true
}

package heap

import (
	"log/slog"

	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// Collect reclaims every object unreachable from the root set and returns
// the number of objects freed.  Handles to freed objects become dangling.
func (h *Heap) Collect() int {
	h.marks.Reset()
	h.work = h.work[:0]
	for _, v := range h.stack {
		h.mark(v)
	}
	for _, p := range h.pins {
		h.mark(p.v)
	}
	for len(h.work) > 0 {
		i := h.work[len(h.work)-1]
		h.work = h.work[:len(h.work)-1]
		h.trace(&h.objects[i])
	}

	freed := 0
	for i := range h.objects {
		if h.objects[i].kind == lisp.LNil {
			continue
		}
		// Add reports true only for objects the mark phase never reached.
		if h.marks.Add(uintptr(i)) {
			h.release(uint32(i))
			freed++
		}
	}
	h.marks.Reset()

	h.stats.Collections++
	h.stats.Freed += uint64(freed)
	h.stats.LastFreed = freed
	h.logger.Debug("gc cycle",
		slog.Uint64("cycle", h.stats.Collections),
		slog.Int("freed", freed),
		slog.Int("live", h.live),
		slog.Int("threshold", h.threshold))
	return freed
}

// mark queues the object referenced by v unless it has already been visited.
func (h *Heap) mark(v lisp.LVal) {
	hd, ok := lisp.GetHandle(v)
	if !ok {
		return
	}
	if _, ok := h.lookup(hd); !ok {
		return
	}
	if h.marks.Add(uintptr(hd.Index())) {
		h.work = append(h.work, hd.Index())
	}
}

func (h *Heap) trace(o *object) {
	switch o.kind {
	case lisp.LCons:
		h.mark(o.cons.CAR)
		h.mark(o.cons.CDR)
	case lisp.LClosure:
		h.mark(o.closure.Env)
		h.mark(o.closure.Formals)
		h.mark(o.closure.Body)
	case lisp.LNamespace:
		h.mark(o.frame.Parent)
		o.frame.Bindings.Each(func(_ symbol.ID, v lisp.LVal) {
			h.mark(v)
		})
	}
}

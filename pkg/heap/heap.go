// Package heap owns every cons, closure, and namespace of an interpreter.
// Other components hold only lisp.Handle references, wrapped in lisp.LVal,
// to heap objects.
//
// Objects are reclaimed by a mark-and-sweep collection that runs when an
// allocation finds the number of live objects at the configured threshold.
// The root set is the value stack (see Push and Unwind) and any values pinned
// by the host (see Pin).  Code that holds heap values in Go variables across
// an allocation must root them first.
package heap

import (
	"fmt"
	"log/slog"

	"github.com/bmatsuo/phoebe/pkg/environ"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
	"github.com/zephyrtronium/contains"
)

const (
	// DefaultThreshold is the number of live objects that triggers the first
	// collection.
	DefaultThreshold = 4096
	// DefaultGrowth is the factor by which the threshold grows when a
	// collection cannot free enough objects.
	DefaultGrowth = 2.0
	// DefaultLimit is the largest threshold a heap will grow to.
	DefaultLimit = 1 << 24
)

// ConsData is the data of a cons cell.
type ConsData struct {
	CAR lisp.LVal
	CDR lisp.LVal
}

// Closure is the data of a compound procedure.
type Closure struct {
	// Name is zero for anonymous functions.
	Name symbol.ID
	// Env is the namespace captured when the closure was created.
	Env     lisp.LVal
	Formals lisp.LVal
	// Body is a list of expressions.
	Body lisp.LVal
}

// Stats describes the state and history of a heap.
type Stats struct {
	Live        int
	Threshold   int
	Slots       int
	Allocations uint64
	Collections uint64
	Freed       uint64
	LastFreed   int
}

type object struct {
	gen     uint32
	kind    lisp.LType // LNil for a free slot
	cons    ConsData
	closure *Closure
	frame   *environ.Frame
}

type pin struct {
	v lisp.LVal
	n int
}

// Heap is an arena of lisp objects.  A Heap is not safe for concurrent use.
type Heap struct {
	objects  []object
	freelist []uint32
	live     int

	threshold int
	growth    float64
	limit     int
	stress    bool

	stack []lisp.LVal
	pins  map[lisp.Handle]*pin

	marks contains.Set
	work  []uint32

	stats  Stats
	logger *slog.Logger
}

// Option configures a Heap.
type Option func(*Heap) error

// WithThreshold sets the number of live objects that triggers a collection.
func WithThreshold(n int) Option {
	return func(h *Heap) error {
		if n <= 0 {
			return fmt.Errorf("heap threshold must be positive: %d", n)
		}
		h.threshold = n
		return nil
	}
}

// WithGrowth sets the factor by which the threshold grows when a collection
// does not free enough objects.  A factor of 1 or less makes the threshold
// fixed so that a full heap is an out of memory condition.
func WithGrowth(factor float64) Option {
	return func(h *Heap) error {
		if factor < 0 {
			return fmt.Errorf("heap growth must not be negative: %v", factor)
		}
		h.growth = factor
		return nil
	}
}

// WithLimit sets the largest threshold the heap may grow to.  A limit of zero
// means there is no limit.
func WithLimit(n int) Option {
	return func(h *Heap) error {
		if n < 0 {
			return fmt.Errorf("heap limit must not be negative: %d", n)
		}
		h.limit = n
		return nil
	}
}

// WithStress causes a collection at every allocation.  Stress mode is very
// slow and exists to expose values that are not properly rooted.
func WithStress(stress bool) Option {
	return func(h *Heap) error {
		h.stress = stress
		return nil
	}
}

// WithLogger sets the logger used to report collections.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Heap) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		h.logger = logger
		return nil
	}
}

// New returns an empty heap.
func New(opts ...Option) (*Heap, error) {
	h := &Heap{
		threshold: DefaultThreshold,
		growth:    DefaultGrowth,
		limit:     DefaultLimit,
		pins:      make(map[lisp.Handle]*pin),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	if h.limit > 0 && h.threshold > h.limit {
		return nil, fmt.Errorf("heap threshold %d exceeds limit %d", h.threshold, h.limit)
	}
	return h, nil
}

// Len returns the number of live objects.
func (h *Heap) Len() int {
	return h.live
}

// Stats returns current heap statistics.
func (h *Heap) Stats() Stats {
	s := h.stats
	s.Live = h.live
	s.Threshold = h.threshold
	s.Slots = len(h.objects)
	return s
}

// Valid returns true if v is not a heap value or refers to an object that
// has not been reclaimed.
func (h *Heap) Valid(v lisp.LVal) bool {
	hd, ok := lisp.GetHandle(v)
	if !ok {
		return true
	}
	_, ok = h.lookup(hd)
	return ok
}

func (h *Heap) lookup(hd lisp.Handle) (*object, bool) {
	i := hd.Index()
	if int(i) >= len(h.objects) {
		return nil, false
	}
	o := &h.objects[i]
	if o.kind == lisp.LNil || o.gen != hd.Gen() {
		return nil, false
	}
	return o, true
}

func (h *Heap) get(t lisp.LType, v lisp.LVal) (*object, error) {
	if err := lisp.Expect(t, v); err != nil {
		return nil, err
	}
	hd, _ := lisp.GetHandle(v)
	o, ok := h.lookup(hd)
	if !ok {
		return nil, fmt.Errorf("%v %v: %w", t, hd, lisp.ErrDanglingHandle)
	}
	return o, nil
}

// alloc reserves a slot for a new object.  The values in fields are roots for
// any collection alloc triggers.
func (h *Heap) alloc(kind lisp.LType, fields ...lisp.LVal) (lisp.Handle, *object, error) {
	if h.stress || h.live >= h.threshold {
		base := len(h.stack)
		h.stack = append(h.stack, fields...)
		h.Collect()
		h.Unwind(base)
		if h.live >= h.threshold && !h.grow() {
			h.logger.Warn("heap exhausted",
				slog.Int("live", h.live),
				slog.Int("threshold", h.threshold))
			return 0, nil, &lisp.OutOfMemoryError{Live: h.live, Threshold: h.threshold}
		}
	}
	var i uint32
	if n := len(h.freelist); n > 0 {
		i = h.freelist[n-1]
		h.freelist = h.freelist[:n-1]
	} else {
		h.objects = append(h.objects, object{gen: 1})
		i = uint32(len(h.objects) - 1)
	}
	o := &h.objects[i]
	o.kind = kind
	h.live++
	h.stats.Allocations++
	return lisp.MakeHandle(i, o.gen), o, nil
}

func (h *Heap) grow() bool {
	if h.growth <= 1 {
		return false
	}
	next := int(float64(h.threshold) * h.growth)
	if next <= h.threshold {
		next = h.threshold + 1
	}
	if h.limit > 0 && next > h.limit {
		next = h.limit
	}
	if next <= h.live {
		return false
	}
	h.logger.Debug("heap threshold raised",
		slog.Int("from", h.threshold),
		slog.Int("to", next))
	h.threshold = next
	return true
}

func (h *Heap) release(i uint32) {
	o := &h.objects[i]
	gen := o.gen + 1
	if gen == 0 {
		gen = 1
	}
	*o = object{gen: gen}
	h.freelist = append(h.freelist, i)
	h.live--
}

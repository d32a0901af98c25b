package lisp

import "fmt"

// Handle is an opaque reference to a heap object.  A Handle combines a slot
// index with the generation of the slot so that a handle to a reclaimed
// object never aliases the slot's next occupant.
type Handle uint64

// MakeHandle returns the handle for slot index at generation gen.
func MakeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

// Index returns the slot index of h.
func (h Handle) Index() uint32 {
	return uint32(h)
}

// Gen returns the slot generation of h.
func (h Handle) Gen() uint32 {
	return uint32(h >> 32)
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.Index(), h.Gen())
}

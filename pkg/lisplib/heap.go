package lisplib

import (
	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/lisp"
)

var heapBuiltins = []*eval.Primitive{
	{Name: "gc", Formals: eval.Formals(), Fn: builtinGC},
	{Name: "heap-stats", Formals: eval.Formals(), Fn: builtinHeapStats},
}

// (gc) collects garbage and returns the number of objects freed.
func builtinGC(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	return lisp.Int(int64(interp.Collect())), nil
}

// (heap-stats) returns a property list describing the heap.
func builtinHeapStats(interp *eval.Interp, args []lisp.LVal) (lisp.LVal, error) {
	st := interp.Heap().Stats()
	return interp.Heap().List(
		interp.Intern(":live"), lisp.Int(int64(st.Live)),
		interp.Intern(":threshold"), lisp.Int(int64(st.Threshold)),
		interp.Intern(":allocations"), lisp.Int(int64(st.Allocations)),
		interp.Intern(":collections"), lisp.Int(int64(st.Collections)),
		interp.Intern(":freed"), lisp.Int(int64(st.Freed)),
	)
}

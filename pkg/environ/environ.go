// Package environ implements namespaces, the lexical environment frames that
// map symbols to mutable value slots.  Frames are owned by a Store (the heap)
// and are chained through their parent namespace value.
package environ

import (
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// Frame is the data of a namespace.
type Frame struct {
	// Name is zero for anonymous namespaces.
	Name symbol.ID
	// Parent is the enclosing namespace or nil for a root namespace.
	Parent   lisp.LVal
	Bindings Bindings
}

// Store resolves namespace values to their frames.
type Store interface {
	Frame(ns lisp.LVal) (*Frame, error)
}

// Lookup returns the value bound to id in ns or the nearest ancestor of ns
// binding id.  Lookup returns an UnboundSymbolError if no namespace in the
// chain binds id.
func Lookup(s Store, ns lisp.LVal, id symbol.ID) (lisp.LVal, error) {
	f, err := find(s, ns, id)
	if err != nil {
		return lisp.Nil(), err
	}
	v, _ := f.Bindings.Get(id)
	return v, nil
}

// Define binds id to v in ns itself, shadowing any binding in an ancestor.
func Define(s Store, ns lisp.LVal, id symbol.ID, v lisp.LVal) error {
	f, err := s.Frame(ns)
	if err != nil {
		return err
	}
	f.Bindings.Put(id, v)
	return nil
}

// Assign updates the binding of id in the nearest namespace, starting at ns,
// that binds it.  Assign never creates a binding and returns an
// UnboundSymbolError, leaving the chain unmodified, if id is not bound.
func Assign(s Store, ns lisp.LVal, id symbol.ID, v lisp.LVal) error {
	f, err := find(s, ns, id)
	if err != nil {
		return err
	}
	f.Bindings.Update(id, v)
	return nil
}

// Bound returns true if id is bound in ns or one of its ancestors.
func Bound(s Store, ns lisp.LVal, id symbol.ID) (bool, error) {
	_, err := find(s, ns, id)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*lisp.UnboundSymbolError); ok {
		return false, nil
	}
	return false, err
}

func find(s Store, ns lisp.LVal, id symbol.ID) (*Frame, error) {
	for {
		f, err := s.Frame(ns)
		if err != nil {
			return nil, err
		}
		if _, ok := f.Bindings.Get(id); ok {
			return f, nil
		}
		if lisp.IsNil(f.Parent) {
			return nil, &lisp.UnboundSymbolError{Symbol: id}
		}
		ns = f.Parent
	}
}

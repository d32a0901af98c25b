package environ

import (
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

type bindingPair struct {
	name  symbol.ID
	value lisp.LVal
}

// Bindings is an ordered set of variable bindings.  The zero Bindings is
// empty and ready to use.
type Bindings struct {
	pairs []bindingPair
	index map[symbol.ID]int
}

// Len returns the number of symbols bound.
func (s *Bindings) Len() int {
	return len(s.pairs)
}

// Get returns the value bound to variable.
func (s *Bindings) Get(variable symbol.ID) (lisp.LVal, bool) {
	i, ok := s.index[variable]
	if !ok {
		return lisp.Nil(), false
	}
	return s.pairs[i].value, true
}

// putIndex rebinds the variable at index i to v.
func (s *Bindings) putIndex(i int, v lisp.LVal) {
	s.pairs[i].value = v
}

// Put binds variable to v.  If variable was previously bound its entry will be
// updated.  Otherwise Put creates a new variable binding.
func (s *Bindings) Put(variable symbol.ID, v lisp.LVal) {
	i, ok := s.index[variable]
	if ok {
		s.putIndex(i, v)
		return
	}
	if s.index == nil {
		s.index = make(map[symbol.ID]int)
	}
	s.index[variable] = len(s.pairs)
	s.pairs = append(s.pairs, bindingPair{variable, v})
}

// Update rebinds an existing variable.  Update returns false if variable is
// not bound in s.
func (s *Bindings) Update(variable symbol.ID, v lisp.LVal) bool {
	i, ok := s.index[variable]
	if !ok {
		return false
	}
	s.putIndex(i, v)
	return true
}

// Each calls fn for each binding in the order variables were first bound.
func (s *Bindings) Each(fn func(variable symbol.ID, v lisp.LVal)) {
	for _, p := range s.pairs {
		fn(p.name, p.value)
	}
}

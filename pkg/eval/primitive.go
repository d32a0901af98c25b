package eval

import (
	"fmt"

	"github.com/bmatsuo/phoebe/pkg/lisp"
)

// Lambda list markers.
const (
	OptionalSymbol = "&optional"
	RestSymbol     = "&rest"
	KeySymbol      = "&key"
)

// Fn is the implementation of a builtin procedure.  The arguments are rooted
// for the duration of the call and have already been checked against the
// formals of the Primitive.
type Fn func(interp *Interp, args []lisp.LVal) (lisp.LVal, error)

// Primitive is a procedure implemented in Go.
type Primitive struct {
	Name string
	// Formals document the arguments.  Only required, &optional, and &rest
	// arguments are supported.
	Formals []string
	Fn      Fn

	min int
	max int
}

// Formals returns its arguments.
func Formals(argSymbols ...string) []string {
	return argSymbols
}

// Arity returns the minimum and maximum number of arguments p accepts.  A
// negative maximum means the number of arguments is unbounded.
func (p *Primitive) Arity() (min, max int) {
	return p.min, p.max
}

func (p *Primitive) init() error {
	if p.Fn == nil {
		return fmt.Errorf("builtin %s: no implementation", p.Name)
	}
	p.min, p.max = 0, 0
	optional := false
	for i, f := range p.Formals {
		switch f {
		case OptionalSymbol:
			if optional {
				return fmt.Errorf("builtin %s: duplicate %s", p.Name, OptionalSymbol)
			}
			optional = true
		case RestSymbol:
			if i != len(p.Formals)-2 {
				return fmt.Errorf("builtin %s: %s must precede the final argument", p.Name, RestSymbol)
			}
			p.max = -1
			return nil
		default:
			if !optional {
				p.min++
			}
			p.max++
		}
	}
	return nil
}

func (p *Primitive) checkArity(n int) error {
	if n < p.min || (p.max >= 0 && n > p.max) {
		return &lisp.ArityMismatchError{Min: p.min, Max: p.max, Received: n}
	}
	return nil
}

// GetPrimitive returns the Primitive implementing builtin v.
func GetPrimitive(v lisp.LVal) (*Primitive, bool) {
	_, native, ok := lisp.GetBuiltin(v)
	if !ok {
		return nil, false
	}
	p, ok := native.(*Primitive)
	return p, ok
}

// AddBuiltins binds a copy of each primitive in the global namespace.
func (interp *Interp) AddBuiltins(prims ...*Primitive) error {
	for _, def := range prims {
		p := *def
		if err := p.init(); err != nil {
			return err
		}
		name := interp.symbols.Intern(p.Name)
		if err := interp.Define(interp.global, name, lisp.Builtin(name, &p)); err != nil {
			return err
		}
	}
	return nil
}

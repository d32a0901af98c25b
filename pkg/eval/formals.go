package eval

import (
	"github.com/bmatsuo/phoebe/pkg/environ"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

type optionalParam struct {
	name symbol.ID
	init lisp.LVal
	// keyword is the self-evaluating symbol naming a &key parameter
	keyword symbol.ID
}

// lambdaList is a parsed closure parameter list.
type lambdaList struct {
	required []symbol.ID
	optional []optionalParam
	rest     symbol.ID
	key      []optionalParam
}

func (ll *lambdaList) arity() (min, max int) {
	min = len(ll.required)
	max = min + len(ll.optional)
	if ll.rest != 0 {
		return min, -1
	}
	return min, max + 2*len(ll.key)
}

// parseFormals parses a lambda list of the form
//
//	(req... [&optional opt...] [&rest rest] [&key key...])
//
// where each opt and key is either a symbol or a list (symbol default).
func (interp *Interp) parseFormals(formals lisp.LVal) (*lambdaList, error) {
	vals, err := interp.heap.Slice(formals)
	if err != nil {
		return nil, syntaxErr("lambda list", "not a proper list")
	}
	const (
		stateRequired = iota
		stateOptional
		stateRest
		stateRestDone
		stateKey
	)
	ll := &lambdaList{}
	seen := make(map[symbol.ID]bool)
	state := stateRequired
	for _, v := range vals {
		if id, ok := lisp.GetSymbol(v); ok {
			switch id {
			case interp.sym.optional:
				if state != stateRequired {
					return nil, syntaxErr("lambda list", "misplaced "+OptionalSymbol)
				}
				state = stateOptional
				continue
			case interp.sym.rest:
				if state != stateRequired && state != stateOptional {
					return nil, syntaxErr("lambda list", "misplaced "+RestSymbol)
				}
				state = stateRest
				continue
			case interp.sym.key:
				if state == stateRest || state == stateKey {
					return nil, syntaxErr("lambda list", "misplaced "+KeySymbol)
				}
				state = stateKey
				continue
			}
		}
		name, init, err := interp.parseParam(v, state == stateOptional || state == stateKey)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, syntaxErr("lambda list", "duplicate parameter "+interp.SymbolName(name))
		}
		seen[name] = true
		switch state {
		case stateRequired:
			ll.required = append(ll.required, name)
		case stateOptional:
			ll.optional = append(ll.optional, optionalParam{name: name, init: init})
		case stateRest:
			ll.rest = name
			state = stateRestDone
		case stateRestDone:
			return nil, syntaxErr("lambda list", "more than one "+RestSymbol+" parameter")
		case stateKey:
			kw := interp.symbols.Intern(":" + interp.SymbolName(name))
			ll.key = append(ll.key, optionalParam{name: name, init: init, keyword: kw})
		}
	}
	if state == stateRest {
		return nil, syntaxErr("lambda list", RestSymbol+" without a parameter")
	}
	return ll, nil
}

func (interp *Interp) parseParam(v lisp.LVal, defaults bool) (symbol.ID, lisp.LVal, error) {
	if id, ok := lisp.GetSymbol(v); ok {
		if interp.isKeyword(id) {
			return 0, lisp.Nil(), syntaxErr("lambda list", "keyword used as a parameter")
		}
		return id, lisp.Nil(), nil
	}
	if !defaults || v.Type() != lisp.LCons {
		return 0, lisp.Nil(), syntaxErr("lambda list", "parameter is not a symbol")
	}
	pair, err := interp.heap.Slice(v)
	if err != nil || len(pair) < 1 || len(pair) > 2 {
		return 0, lisp.Nil(), syntaxErr("lambda list", "parameter must be (name default)")
	}
	id, ok := lisp.GetSymbol(pair[0])
	if !ok || interp.isKeyword(id) {
		return 0, lisp.Nil(), syntaxErr("lambda list", "parameter is not a symbol")
	}
	if len(pair) == 1 {
		return id, lisp.Nil(), nil
	}
	return id, pair[1], nil
}

// bind binds args to the parameters of ll in the namespace ns.  Default
// expressions are evaluated in ns after the parameters preceding them are
// bound.  The args must be rooted.
func (interp *Interp) bind(ll *lambdaList, ns lisp.LVal, args []lisp.LVal) error {
	min, max := ll.arity()
	if len(args) < min || (max >= 0 && len(args) > max) {
		return &lisp.ArityMismatchError{Min: min, Max: max, Received: len(args)}
	}
	h := interp.heap
	for i, name := range ll.required {
		if err := environ.Define(h, ns, name, args[i]); err != nil {
			return err
		}
	}
	args = args[len(ll.required):]
	for _, p := range ll.optional {
		var v lisp.LVal
		if len(args) > 0 {
			v = args[0]
			args = args[1:]
		} else {
			var err error
			v, err = interp.eval(p.init, ns)
			if err != nil {
				return err
			}
		}
		if err := environ.Define(h, ns, p.name, v); err != nil {
			return err
		}
	}
	if ll.rest != 0 {
		rest, err := h.List(args...)
		if err != nil {
			return err
		}
		if err := environ.Define(h, ns, ll.rest, rest); err != nil {
			return err
		}
	}
	if len(ll.key) == 0 {
		return nil
	}
	if len(args)%2 != 0 {
		return syntaxErr("keyword arguments", "odd number of keyword arguments")
	}
	given := make(map[symbol.ID]lisp.LVal, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		kw, ok := lisp.GetSymbol(args[i])
		if !ok || !interp.isKeyword(kw) {
			return syntaxErr("keyword arguments", "expected a keyword")
		}
		given[kw] = args[i+1]
	}
	for _, p := range ll.key {
		v, ok := given[p.keyword]
		if ok {
			delete(given, p.keyword)
		} else {
			var err error
			v, err = interp.eval(p.init, ns)
			if err != nil {
				return err
			}
		}
		if err := environ.Define(h, ns, p.name, v); err != nil {
			return err
		}
	}
	for kw := range given {
		return syntaxErr("keyword arguments", "unknown keyword "+interp.SymbolName(kw))
	}
	return nil
}

func syntaxErr(form, msg string) error {
	return &lisp.SyntaxError{Form: form, Msg: msg}
}

package lisp

import (
	"errors"
	"fmt"

	"github.com/bmatsuo/phoebe/pkg/symbol"
)

var (
	// ErrDanglingHandle is returned when a handle refers to an object that
	// has already been reclaimed.
	ErrDanglingHandle = errors.New("dangling heap handle")
	// ErrDivideByZero is returned by integer division and modulus.
	ErrDivideByZero = errors.New("division by zero")
)

// ParseError is returned by the reader for malformed text.
type ParseError struct {
	Pos int
	Msg string
	// Incomplete is true when the text ended inside an unclosed list.
	// More input may turn it into a valid program.
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Msg)
}

// UnboundSymbolError is returned when no namespace in a chain binds a symbol.
type UnboundSymbolError struct {
	Symbol symbol.ID
	Name   string
}

func (e *UnboundSymbolError) Error() string {
	return "unbound symbol: " + e.name()
}

func (e *UnboundSymbolError) name() string {
	if e.Name != "" {
		return e.Name
	}
	return symbol.String(e.Symbol, nil)
}

func (e *UnboundSymbolError) describe(table symbol.Table, _ func(LVal) string) {
	if e.Name == "" {
		e.Name = symbol.String(e.Symbol, table)
	}
}

// TypeMismatchError is returned when a value is used as the wrong variant.
type TypeMismatchError struct {
	Expected LType
	Actual   LType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %v, got %v", e.Expected, e.Actual)
}

// ArityMismatchError is returned when a procedure is called with the wrong
// number of arguments.  A negative Max means there is no upper bound.
type ArityMismatchError struct {
	Min      int
	Max      int
	Received int
}

// Expected describes the number of arguments that would have been accepted.
func (e *ArityMismatchError) Expected() string {
	switch {
	case e.Max < 0:
		return fmt.Sprintf("at least %d", e.Min)
	case e.Min == e.Max:
		return fmt.Sprint(e.Min)
	default:
		return fmt.Sprintf("%d to %d", e.Min, e.Max)
	}
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("invalid number of arguments: expected %s, received %d", e.Expected(), e.Received)
}

// NotApplicableError is returned when a non-procedure is called.
type NotApplicableError struct {
	Value LVal
	Repr  string
}

func (e *NotApplicableError) Error() string {
	if e.Repr != "" {
		return "not applicable: " + e.Repr
	}
	return fmt.Sprintf("not applicable: value of type %v", e.Value.Type())
}

func (e *NotApplicableError) describe(_ symbol.Table, format func(LVal) string) {
	if e.Repr == "" {
		e.Repr = format(e.Value)
	}
}

// OutOfMemoryError is returned when a collection cannot make room for an
// allocation.
type OutOfMemoryError struct {
	Live      int
	Threshold int
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("out of memory: %d live objects at threshold %d", e.Live, e.Threshold)
}

// StackOverflowError is returned when evaluation exceeds the maximum call
// stack height.
type StackOverflowError struct {
	Height int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow: maximum height %d exceeded", e.Height)
}

// ImproperListError is returned when a proper list was required but a chain
// of conses did not end in nil.
type ImproperListError struct {
	Value LVal
}

func (e *ImproperListError) Error() string {
	return "improper list"
}

// SyntaxError is returned for a malformed special form.
type SyntaxError struct {
	Form string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed %s: %s", e.Form, e.Msg)
}

// UserError is a condition signaled by lisp code.
type UserError struct {
	Condition symbol.ID
	Body      LVal
	Name      string
	BodyRepr  string
}

func (e *UserError) Error() string {
	name := e.Name
	if name == "" {
		name = symbol.String(e.Condition, nil)
	}
	if e.BodyRepr == "" {
		return name
	}
	return name + ": " + e.BodyRepr
}

func (e *UserError) describe(table symbol.Table, format func(LVal) string) {
	if e.Name == "" {
		e.Name = symbol.String(e.Condition, table)
	}
	if e.BodyRepr == "" && !IsNil(e.Body) {
		e.BodyRepr = format(e.Body)
	}
}

type describer interface {
	describe(table symbol.Table, format func(LVal) string)
}

// Describe fills in the printable names of every error in the chain of err
// that refers to symbols or values.  Describe must be called before any
// value referenced by err could be reclaimed.  Wrappers that format their
// message when created, such as those made by fmt.Errorf, keep the text
// they were built with, so errors should only be wrapped after Describe.
func Describe(err error, table symbol.Table, format func(LVal) string) {
	for err != nil {
		if d, ok := err.(describer); ok {
			d.describe(table, format)
		}
		err = errors.Unwrap(err)
	}
}

// Condition names reported to lisp code for each kind of error.
const (
	CondError         = "error"
	CondUnboundSymbol = "unbound-symbol-error"
	CondType          = "type-error"
	CondArity         = "arg-count-error"
	CondNotApplicable = "not-applicable-error"
	CondImproperList  = "improper-list-error"
	CondSyntax        = "syntax-error"
	CondParse         = "parse-error"
	CondDivideByZero  = "division-by-zero"
	CondOutOfMemory   = "out-of-memory-error"
	CondStackOverflow = "stack-overflow-error"
)

// ConditionName returns the name lisp code uses to identify the kind of err.
// User conditions are identified by their symbol.
func ConditionName(err error, table symbol.Table) string {
	var (
		user    *UserError
		unbound *UnboundSymbolError
		typ     *TypeMismatchError
		arity   *ArityMismatchError
		notfn   *NotApplicableError
		list    *ImproperListError
		syntax  *SyntaxError
		parse   *ParseError
		oom     *OutOfMemoryError
		so      *StackOverflowError
	)
	switch {
	case errors.As(err, &user):
		return symbol.String(user.Condition, table)
	case errors.As(err, &unbound):
		return CondUnboundSymbol
	case errors.As(err, &typ):
		return CondType
	case errors.As(err, &arity):
		return CondArity
	case errors.As(err, &notfn):
		return CondNotApplicable
	case errors.As(err, &list):
		return CondImproperList
	case errors.As(err, &syntax):
		return CondSyntax
	case errors.As(err, &parse):
		return CondParse
	case errors.Is(err, ErrDivideByZero):
		return CondDivideByZero
	case errors.As(err, &oom):
		return CondOutOfMemory
	case errors.As(err, &so):
		return CondStackOverflow
	default:
		return CondError
	}
}

// IsFatal returns true if err must not be trapped by lisp code.
func IsFatal(err error) bool {
	var (
		oom *OutOfMemoryError
		so  *StackOverflowError
	)
	return errors.As(err, &oom) || errors.As(err, &so)
}

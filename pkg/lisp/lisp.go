package lisp

import (
	"fmt"
	"strings"

	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// LType is the variant tag of an LVal.
type LType uint8

const (
	// LNil is the absense of a value but also acts as an empty list.
	LNil LType = iota
	// LInt is a 64-bit signed integer.
	// Schema:
	// 	Data: int64 bits
	LInt
	// LBool is a boolean value.
	// Schema:
	//  Data: 0x0 if false and true otherwise
	LBool
	// LSymbol is an interned name.
	// Schema:
	// 	Data: symbol.ID value
	LSymbol
	// LCons is a heap-allocated pair.
	// Schema:
	// 	Data: Handle
	LCons
	// LClosure is a heap-allocated compound procedure.
	// Schema:
	// 	Data: Handle
	LClosure
	// LNamespace is a heap-allocated environment frame.
	// Schema:
	// 	Data: Handle
	LNamespace
	// LBuiltin is a native procedure.  Builtins are not heap objects.
	// Schema:
	// 	Data: symbol.ID value (name)
	// 	Native: implementation defined by the evaluator
	LBuiltin
)

var typeStrings = []string{
	LNil:       "nil",
	LInt:       "int",
	LBool:      "bool",
	LSymbol:    "symbol",
	LCons:      "cons",
	LClosure:   "closure",
	LNamespace: "namespace",
	LBuiltin:   "builtin",
}

func (t LType) String() string {
	if int(t) >= len(typeStrings) {
		return fmt.Sprintf("LType(%d)", uint8(t))
	}
	return typeStrings[t]
}

// IsHeap returns true if values of type t are references to heap objects.
func (t LType) IsHeap() bool {
	return t == LCons || t == LClosure || t == LNamespace
}

// LVal is a lisp value.  The zero LVal is a valid LNil value.
type LVal struct {
	typ    LType
	Data   uint64
	Native interface{}
}

// Type returns the variant of v.
func (v LVal) Type() LType {
	return v.typ
}

// Nil returns the nil value.
func Nil() LVal {
	return LVal{}
}

// IsNil returns true if v is nil.
func IsNil(v LVal) bool {
	return v.typ == LNil
}

// Int returns an LVal representing x.
func Int(x int64) LVal {
	return LVal{typ: LInt, Data: uint64(x)}
}

// GetInt returns the integer stored in v.  GetInt returns false if v is not
// LInt.
func GetInt(v LVal) (int64, bool) {
	if v.typ != LInt {
		return 0, false
	}
	return int64(v.Data), true
}

// Bool returns an LVal representing b.
func Bool(b bool) LVal {
	if b {
		return True()
	}
	return False()
}

// True returns the boolean true value.
func True() LVal {
	return LVal{typ: LBool, Data: 1}
}

// False returns the boolean false value.
func False() LVal {
	return LVal{typ: LBool}
}

// GetBool returns the boolean stored in v.  GetBool returns false for ok if
// v is not LBool.
func GetBool(v LVal) (b bool, ok bool) {
	if v.typ != LBool {
		return false, false
	}
	return v.Data != 0, true
}

// IsTrue returns true unless v is false or nil.
func IsTrue(v LVal) bool {
	switch v.typ {
	case LNil:
		return false
	case LBool:
		return v.Data != 0
	default:
		return true
	}
}

// Symbol returns an LVal referencing the symbol id.
func Symbol(id symbol.ID) LVal {
	return LVal{typ: LSymbol, Data: uint64(id)}
}

// GetSymbol returns the symbol referenced by v.  GetSymbol returns false if v
// is not LSymbol.
func GetSymbol(v LVal) (symbol.ID, bool) {
	if v.typ != LSymbol {
		return 0, false
	}
	return symbol.ID(v.Data), true
}

// IsKeyword returns true if name is the name of a self-evaluating keyword
// symbol.
func IsKeyword(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ":")
}

// Builtin returns an LVal wrapping a native procedure.  The evaluator defines
// what native must be, but its dynamic type must be comparable, such as a
// pointer, because Eq compares natives with ==.
func Builtin(name symbol.ID, native interface{}) LVal {
	return LVal{typ: LBuiltin, Data: uint64(name), Native: native}
}

// GetBuiltin returns the name and native implementation of a builtin.
func GetBuiltin(v LVal) (symbol.ID, interface{}, bool) {
	if v.typ != LBuiltin {
		return 0, nil, false
	}
	return symbol.ID(v.Data), v.Native, true
}

// Ref returns a value of heap type t referencing handle h.  Ref panics if t
// is not a heap type.
func Ref(t LType, h Handle) LVal {
	if !t.IsHeap() {
		panic(fmt.Sprintf("not a heap type: %v", t))
	}
	return LVal{typ: t, Data: uint64(h)}
}

// GetHandle returns the heap handle referenced by v.  GetHandle returns false
// if v is not a heap type.
func GetHandle(v LVal) (Handle, bool) {
	if !v.typ.IsHeap() {
		return 0, false
	}
	return Handle(v.Data), true
}

// Eq reports whether a and b are identical.  Integers and booleans are
// compared by value, symbols and heap objects by identity.
func Eq(a, b LVal) bool {
	if a.typ != b.typ {
		return false
	}
	if a.typ == LBuiltin {
		return a.Data == b.Data && a.Native == b.Native
	}
	return a.Data == b.Data
}

// Expect returns a TypeMismatchError if v is not of type t.
func Expect(t LType, v LVal) error {
	if v.typ != t {
		return &TypeMismatchError{Expected: t, Actual: v.typ}
	}
	return nil
}

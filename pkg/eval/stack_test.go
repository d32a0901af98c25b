package eval

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallStack(t *testing.T) {
	table := symbol.NewTable()
	s := &CallStack{MaxHeight: 2}
	assert.Nil(t, s.Top())

	require.NoError(t, s.Push(CallFrame{Name: table.Intern("outer"), Kind: FrameClosure}))
	require.NoError(t, s.Push(CallFrame{}))
	assert.Equal(t, 2, s.Height())

	err := s.Push(CallFrame{})
	var so *lisp.StackOverflowError
	require.True(t, errors.As(err, &so))
	assert.Equal(t, 2, so.Height)
	assert.Equal(t, 2, s.Height())

	s.Top().Kind = FrameBuiltin
	s.Top().Name = table.Intern("car")
	cp := s.Copy()

	var buf bytes.Buffer
	_, err = cp.DebugPrint(&buf, table)
	require.NoError(t, err)
	assert.Equal(t, "Stack Trace [2 frames -- entrypoint last]:\n"+
		"  height 1: car [builtin]\n"+
		"  height 0: outer [function]\n", buf.String())

	f := s.Pop()
	assert.Equal(t, FrameBuiltin, f.Kind)
	s.Pop()
	assert.Equal(t, 0, s.Height())
	assert.Panics(t, func() { s.Pop() })
	// the copy is independent of the original
	assert.Equal(t, 2, cp.Height())
}

func TestCallStackUnbounded(t *testing.T) {
	s := &CallStack{}
	for i := 0; i < 3*DefaultMaxHeight; i++ {
		require.NoError(t, s.Push(CallFrame{}))
	}
}

func TestPrimitiveArity(t *testing.T) {
	nop := func(*Interp, []lisp.LVal) (lisp.LVal, error) { return lisp.Nil(), nil }
	for _, test := range []struct {
		formals  []string
		min, max int
		fail     bool
	}{
		{Formals(), 0, 0, false},
		{Formals("a", "b"), 2, 2, false},
		{Formals("a", OptionalSymbol, "b", "c"), 1, 3, false},
		{Formals("a", RestSymbol, "b"), 1, -1, false},
		{Formals(OptionalSymbol, "a", RestSymbol, "b"), 0, -1, false},
		{Formals(RestSymbol, "a", "b"), 0, 0, true},
		{Formals(OptionalSymbol, "a", OptionalSymbol, "b"), 0, 0, true},
	} {
		p := &Primitive{Name: "test", Formals: test.formals, Fn: nop}
		err := p.init()
		if test.fail {
			assert.Error(t, err, "%v", test.formals)
			continue
		}
		require.NoError(t, err, "%v", test.formals)
		min, max := p.Arity()
		assert.Equal(t, test.min, min, "%v", test.formals)
		assert.Equal(t, test.max, max, "%v", test.formals)
	}

	p := &Primitive{Name: "nofn"}
	assert.Error(t, p.init())
}

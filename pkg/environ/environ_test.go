package environ

import (
	"errors"
	"testing"

	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStore map[lisp.Handle]*Frame

func (s testStore) Frame(ns lisp.LVal) (*Frame, error) {
	if err := lisp.Expect(lisp.LNamespace, ns); err != nil {
		return nil, err
	}
	h, _ := lisp.GetHandle(ns)
	f, ok := s[h]
	if !ok {
		return nil, lisp.ErrDanglingHandle
	}
	return f, nil
}

func (s testStore) New(parent lisp.LVal) lisp.LVal {
	h := lisp.MakeHandle(uint32(len(s)), 1)
	s[h] = &Frame{Parent: parent}
	return lisp.Ref(lisp.LNamespace, h)
}

func AssertIntEqual(t *testing.T, expect int64, v lisp.LVal) {
	t.Helper()
	x, ok := lisp.GetInt(v)
	if assert.True(t, ok) {
		assert.Equal(t, expect, x)
	}
}

func AssertUnbound(t *testing.T, id symbol.ID, err error) {
	t.Helper()
	var unbound *lisp.UnboundSymbolError
	if assert.True(t, errors.As(err, &unbound)) {
		assert.Equal(t, id, unbound.Symbol)
	}
}

func TestRoot(t *testing.T) {
	table := symbol.NewTable()
	vara := table.Intern("a")
	varb := table.Intern("b")
	s := testStore{}
	root := s.New(lisp.Nil())
	require.NoError(t, Define(s, root, vara, lisp.Int(1)))
	_, err := Lookup(s, root, varb)
	AssertUnbound(t, varb, err)
	v, err := Lookup(s, root, vara)
	if assert.NoError(t, err) {
		AssertIntEqual(t, 1, v)
	}
	f, err := s.Frame(root)
	if assert.NoError(t, err) {
		assert.True(t, lisp.IsNil(f.Parent))
	}
}

func TestChild(t *testing.T) {
	table := symbol.NewTable()
	vara := table.Intern("a")
	varb := table.Intern("b")
	s := testStore{}
	root := s.New(lisp.Nil())
	require.NoError(t, Define(s, root, vara, lisp.Int(1)))
	require.NoError(t, Define(s, root, varb, lisp.Int(2)))
	env := s.New(root)
	require.NoError(t, Define(s, env, varb, lisp.Int(3)))

	v, err := Lookup(s, env, vara)
	if assert.NoError(t, err) {
		AssertIntEqual(t, 1, v)
	}
	v, err = Lookup(s, env, varb)
	if assert.NoError(t, err) {
		AssertIntEqual(t, 3, v)
	}
	v, err = Lookup(s, root, varb)
	if assert.NoError(t, err) {
		AssertIntEqual(t, 2, v)
	}
	f, err := s.Frame(env)
	if assert.NoError(t, err) {
		assert.Equal(t, root, f.Parent)
	}
}

func TestAssign(t *testing.T) {
	table := symbol.NewTable()
	vara := table.Intern("a")
	varb := table.Intern("b")
	varc := table.Intern("c")
	s := testStore{}
	root := s.New(lisp.Nil())
	require.NoError(t, Define(s, root, vara, lisp.Int(1)))
	require.NoError(t, Define(s, root, varb, lisp.Int(2)))
	env := s.New(root)
	require.NoError(t, Define(s, env, varb, lisp.Int(3)))

	// the nearest binding is mutated
	require.NoError(t, Assign(s, env, varb, lisp.Int(4)))
	v, _ := Lookup(s, env, varb)
	AssertIntEqual(t, 4, v)
	v, _ = Lookup(s, root, varb)
	AssertIntEqual(t, 2, v)

	// outer bindings are reached through the chain
	require.NoError(t, Assign(s, env, vara, lisp.Int(5)))
	v, _ = Lookup(s, root, vara)
	AssertIntEqual(t, 5, v)
	assert.Equal(t, 1, s[mustHandle(env)].Bindings.Len())

	// unbound symbols are never created
	err := Assign(s, env, varc, lisp.Int(6))
	AssertUnbound(t, varc, err)
	assert.Equal(t, 1, s[mustHandle(env)].Bindings.Len())
	assert.Equal(t, 2, s[mustHandle(root)].Bindings.Len())
	ok, err := Bound(s, env, varc)
	if assert.NoError(t, err) {
		assert.False(t, ok)
	}
	ok, err = Bound(s, env, vara)
	if assert.NoError(t, err) {
		assert.True(t, ok)
	}
}

func TestLookupDefine(t *testing.T) {
	table := symbol.NewTable()
	s := testStore{}
	ns := s.New(s.New(lisp.Nil()))
	for i, name := range []string{"x", "y", "x", "z"} {
		id := table.Intern(name)
		v := lisp.Int(int64(i))
		require.NoError(t, Define(s, ns, id, v))
		got, err := Lookup(s, ns, id)
		if assert.NoError(t, err) {
			assert.True(t, lisp.Eq(v, got))
		}
	}
}

func TestNotNamespace(t *testing.T) {
	s := testStore{}
	_, err := Lookup(s, lisp.Int(1), 1)
	var typ *lisp.TypeMismatchError
	assert.True(t, errors.As(err, &typ))
	_, err = Bound(s, lisp.Int(1), 1)
	assert.Error(t, err)
}

func mustHandle(v lisp.LVal) lisp.Handle {
	h, ok := lisp.GetHandle(v)
	if !ok {
		panic("not a heap value")
	}
	return h
}

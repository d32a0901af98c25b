package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDGen(t *testing.T) {
	g := NewIDGen(0)
	assert.Equal(t, ID(1), g.NewID())
	assert.Equal(t, ID(2), g.NewID())
	assert.Equal(t, ID(3), g.NewID())
}

func TestString(t *testing.T) {
	table := NewTable()
	hello := table.Intern("hello")
	assert.Equal(t, "hello", String(hello, table))
	assert.Equal(t, "#<symbol 0x123456789abcdef0>", String(0x123456789abcdef0, table))
	assert.Equal(t, "#<symbol 0x1>", String(1, nil))
}

func TestTable(t *testing.T) {
	table := NewTable()
	assert.Equal(t, 0, table.Len())
	a := table.Intern("a")
	b := table.Intern("b")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, ID(0), a)
	assert.Equal(t, a, table.Intern("a"))
	assert.Equal(t, 2, table.Len())

	id, ok := table.Peek("b")
	if assert.True(t, ok) {
		assert.Equal(t, b, id)
	}
	_, ok = table.Peek("c")
	assert.False(t, ok)
	assert.Equal(t, 2, table.Len())

	s, ok := table.Symbol(a)
	if assert.True(t, ok) {
		assert.Equal(t, "a", s)
	}
	_, ok = table.Symbol(0)
	assert.False(t, ok)
}

func TestGensym(t *testing.T) {
	table := NewTable()
	taken := table.Intern("g1")
	g, ok := table.(Gensymer)
	if !assert.True(t, ok) {
		return
	}
	id := g.Gensym("g")
	assert.NotEqual(t, taken, id)
	assert.Equal(t, "g2", String(id, table))
	assert.NotEqual(t, id, g.Gensym("g"))
}

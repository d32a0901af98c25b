package environ

import (
	"testing"

	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
	"github.com/stretchr/testify/assert"
)

func TestBindings(t *testing.T) {
	table := symbol.NewTable()
	vara := table.Intern("a")
	varb := table.Intern("b")

	var b Bindings
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Update(vara, lisp.Int(0)))
	b.Put(vara, lisp.Int(1))
	b.Put(varb, lisp.Int(2))
	b.Put(vara, lisp.Int(3))
	assert.Equal(t, 2, b.Len())
	v, ok := b.Get(vara)
	if assert.True(t, ok) {
		AssertIntEqual(t, 3, v)
	}

	v, ok = b.Get(varb)
	if assert.True(t, ok) {
		AssertIntEqual(t, 2, v)
	}
	assert.True(t, b.Update(varb, lisp.Int(4)))

	var names []symbol.ID
	var vals []lisp.LVal
	b.Each(func(id symbol.ID, v lisp.LVal) {
		names = append(names, id)
		vals = append(vals, v)
	})
	assert.Equal(t, []symbol.ID{vara, varb}, names)
	if assert.Len(t, vals, 2) {
		AssertIntEqual(t, 3, vals[0])
		AssertIntEqual(t, 4, vals[1])
	}
}

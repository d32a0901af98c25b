package symbol

import (
	"strconv"
	"sync"
)

// Table maps symbol IDs to strings.
type Table interface {
	// Len returns the number of symbols interned in the table.
	Len() int
	// Intern inserts the given symbol into the table if it is not present and
	// returns its ID.
	Intern(symbol string) ID
	// Peek retrieves the ID of a symbol without automatically interning it.
	// Peek returns true iff the symbol has been interned into the table.
	Peek(symbol string) (ID, bool)
	// Symbol returns the symbol associated with id.
	Symbol(id ID) (string, bool)
}

// Gensymer is a Table that can create symbols guaranteed not to have been
// interned before.
type Gensymer interface {
	Table
	// Gensym interns and returns a fresh symbol whose name begins with
	// prefix.
	Gensym(prefix string) ID
}

// NewTable returns an empty Table that also implements Gensymer.
func NewTable() Table {
	return newTable()
}

type table struct {
	sync   sync.RWMutex
	g      IDGen
	i      map[ID]string
	s      map[string]ID
	gensym uint64
}

var (
	_ Table    = (*table)(nil)
	_ Gensymer = (*table)(nil)
)

func newTable() *table {
	return &table{
		g: NewIDGen(0),
		i: make(map[ID]string),
		s: make(map[string]ID),
	}
}

func (t *table) Len() int {
	t.sync.RLock()
	defer t.sync.RUnlock()
	return len(t.i)
}

func (t *table) Intern(symbol string) ID {
	t.sync.Lock()
	defer t.sync.Unlock()
	return t.intern(symbol)
}

func (t *table) intern(symbol string) ID {
	if id, ok := t.s[symbol]; ok {
		return id
	}
	id := t.g.NewID()
	t.s[symbol] = id
	t.i[id] = symbol
	return id
}

func (t *table) Peek(symbol string) (ID, bool) {
	t.sync.RLock()
	defer t.sync.RUnlock()
	id, ok := t.s[symbol]
	return id, ok
}

func (t *table) Symbol(id ID) (string, bool) {
	t.sync.RLock()
	defer t.sync.RUnlock()
	s, ok := t.i[id]
	return s, ok
}

func (t *table) Gensym(prefix string) ID {
	t.sync.Lock()
	defer t.sync.Unlock()
	for {
		t.gensym++
		name := prefix + strconv.FormatUint(t.gensym, 10)
		if _, ok := t.s[name]; !ok {
			return t.intern(name)
		}
	}
}

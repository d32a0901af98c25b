package symbol

import "fmt"

// ID identifies an interned symbol.  The zero ID is never assigned by a
// Table and can be used as "no symbol".
type ID uint64

// MaxID is the largest ID a Table will assign.
const MaxID = 0x00000000FFFFFFFF

// IDGen is a function that generates unique IDs.
type IDGen interface {
	// NewID returns a unique ID.  It is not specified at the interface level
	// what IDs are returned, only that they are unique.
	NewID() ID
}

// NewIDGen returns a basic IDGen that will generate unique ids from min to
// MaxID.  The returned IDGen will not produce the value min.
func NewIDGen(min ID) IDGen {
	if min > MaxID {
		panic("invalid min ID")
	}
	return &gen{lastid: min}
}

type gen struct {
	lastid ID
}

var _ IDGen = (*gen)(nil)

func (g *gen) NewID() ID {
	if g.lastid >= MaxID {
		panic("too many ids generated")
	}
	g.lastid++
	return g.lastid
}

// String returns the name of id in table.  If id is unknown to table, or
// table is nil, String returns a diagnostic string describing id.
func String(id ID, table Table) string {
	if table != nil {
		if s, ok := table.Symbol(id); ok {
			return s
		}
	}
	return fmt.Sprintf("#<symbol %#x>", uint64(id))
}

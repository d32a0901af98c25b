package heap

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// Format writes the printed representation of v to w.
func (h *Heap) Format(w io.Writer, v lisp.LVal, table symbol.Table) (int, error) {
	p := &printer{
		w:     w,
		h:     h,
		table: table,
		path:  make(map[lisp.Handle]bool),
	}
	p.format(v)
	return p.n, p.err
}

// String returns the printed representation of v.
func (h *Heap) String(v lisp.LVal, table symbol.Table) string {
	var b strings.Builder
	h.Format(&b, v, table)
	return b.String()
}

type printer struct {
	w     io.Writer
	h     *Heap
	table symbol.Table
	// path holds the conses being printed so cycles can be cut short
	path map[lisp.Handle]bool
	n    int
	err  error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	n, err := io.WriteString(p.w, s)
	p.n += n
	p.err = err
}

func (p *printer) name(id symbol.ID) string {
	return symbol.String(id, p.table)
}

func (p *printer) format(v lisp.LVal) {
	if !p.h.Valid(v) {
		hd, _ := lisp.GetHandle(v)
		p.write(fmt.Sprintf("#<dangling %v %v>", v.Type(), hd))
		return
	}
	switch v.Type() {
	case lisp.LNil:
		p.write("nil")
	case lisp.LInt:
		x, _ := lisp.GetInt(v)
		p.write(strconv.FormatInt(x, 10))
	case lisp.LBool:
		b, _ := lisp.GetBool(v)
		p.write(strconv.FormatBool(b))
	case lisp.LSymbol:
		id, _ := lisp.GetSymbol(v)
		p.write(p.name(id))
	case lisp.LCons:
		p.formatList(v)
	case lisp.LClosure:
		c, _ := p.h.Closure(v)
		p.named("function", c.Name)
	case lisp.LNamespace:
		f, _ := p.h.Frame(v)
		p.named("namespace", f.Name)
	case lisp.LBuiltin:
		id, _, _ := lisp.GetBuiltin(v)
		p.named("builtin", id)
	default:
		p.write(fmt.Sprintf("#<%v>", v.Type()))
	}
}

func (p *printer) named(kind string, id symbol.ID) {
	if id == 0 {
		p.write("#<" + kind + ">")
		return
	}
	p.write("#<" + kind + " " + p.name(id) + ">")
}

func (p *printer) formatList(v lisp.LVal) {
	var cells []lisp.Handle
	defer func() {
		for _, hd := range cells {
			delete(p.path, hd)
		}
	}()
	p.write("(")
	for i := 0; ; i++ {
		hd, _ := lisp.GetHandle(v)
		if p.path[hd] {
			if i > 0 {
				p.write(" ")
			}
			p.write("...)")
			return
		}
		p.path[hd] = true
		cells = append(cells, hd)
		c, err := p.h.Cons(v)
		if err != nil {
			p.write("...)")
			return
		}
		if i > 0 {
			p.write(" ")
		}
		p.format(c.CAR)
		switch {
		case lisp.IsNil(c.CDR):
			p.write(")")
			return
		case c.CDR.Type() == lisp.LCons && p.h.Valid(c.CDR):
			v = c.CDR
		default:
			p.write(" . ")
			p.format(c.CDR)
			p.write(")")
			return
		}
	}
}

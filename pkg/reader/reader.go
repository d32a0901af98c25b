// Package reader parses lisp text into heap-allocated object trees.
//
//	expr    := '(' <expr>* ')' | '\'' <expr> | <atom> | <comment>
//	atom    := /[^\s()';]+/
//	comment := ';' /[^\n]*/
//
// An atom is an integer if it matches /[+-]?[0-9]+/, the dot of a dotted
// list if it is ".", and a symbol otherwise.  The symbols true, false, and
// nil read as the boolean and nil values.
package reader

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/bmatsuo/phoebe/pkg/heap"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
	parsec "github.com/prataprc/goparsec"
)

const (
	nodeInvalid nodeType = iota
	nodeAtom
	nodeList
	nodeQuote
	nodeComment
)

var nodeTypeStrings = []string{
	nodeInvalid: "INVALID",
	nodeAtom:    "ATOM",
	nodeList:    "LIST",
	nodeQuote:   "QUOTE",
	nodeComment: "COMMENT",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

var intPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

// Reader converts text into lisp values allocated on a heap.
type Reader struct {
	heap   *heap.Heap
	table  symbol.Table
	parser parsec.Parser
	quote  symbol.ID
}

// New returns a Reader that allocates lists on h and interns symbols in
// table.
func New(h *heap.Heap, table symbol.Table) *Reader {
	return &Reader{
		heap:   h,
		table:  table,
		parser: newParsecParser(),
		quote:  table.Intern("quote"),
	}
}

// ReadProgram parses every expression in text and returns them as a list.
// The returned value is not rooted.  Callers must root it before the heap
// allocates again.
func (r *Reader) ReadProgram(text []byte) (lisp.LVal, error) {
	nodes, err := r.parse(text)
	if err != nil {
		return lisp.Nil(), err
	}
	base := r.heap.StackLen()
	defer r.heap.Unwind(base)
	vals := make([]lisp.LVal, 0, len(nodes))
	for _, n := range nodes {
		v, err := r.build(n)
		if err != nil {
			return lisp.Nil(), err
		}
		r.heap.Push(v)
		vals = append(vals, v)
	}
	return r.heap.List(vals...)
}

// ReadExpr parses text which must contain exactly one expression.  Like
// ReadProgram the returned value is not rooted.
func (r *Reader) ReadExpr(text []byte) (lisp.LVal, error) {
	nodes, err := r.parse(text)
	if err != nil {
		return lisp.Nil(), err
	}
	if len(nodes) != 1 {
		return lisp.Nil(), &lisp.ParseError{
			Pos: len(text),
			Msg: fmt.Sprintf("expected one expression but found %d", len(nodes)),
		}
	}
	return r.build(nodes[0])
}

func (r *Reader) parse(text []byte) ([]*ast, error) {
	var nodes []*ast
	s := parsec.NewScanner(text)
	root, s := r.parser(s)
	for root != nil {
		for _, c := range cleanParsecNodeList([]parsec.ParsecNode{root}) {
			n, ok := c.(*ast)
			if !ok {
				return nil, &lisp.ParseError{Pos: s.GetCursor(), Msg: "unexpected token"}
			}
			switch {
			case n.typ == nodeComment:
			case n.typ == nodeAtom && n.text == ".":
				return nil, &lisp.ParseError{Pos: n.pos, Msg: "misplaced dot"}
			default:
				nodes = append(nodes, n)
			}
		}
		root, s = r.parser(s)
	}
	pos := s.GetCursor()
	if rest := bytes.TrimSpace(text[pos:]); len(rest) > 0 {
		if depth := Depth(text); depth > 0 {
			return nil, &lisp.ParseError{
				Pos:        len(text),
				Msg:        fmt.Sprintf("%d unclosed list(s)", depth),
				Incomplete: true,
			}
		}
		if quoteOnly(rest) {
			return nil, &lisp.ParseError{
				Pos:        len(text),
				Msg:        "nothing to quote",
				Incomplete: true,
			}
		}
		return nil, &lisp.ParseError{Pos: pos, Msg: fmt.Sprintf("unexpected input %q", snippet(rest))}
	}
	for _, n := range nodes {
		if err := n.check(); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// quoteOnly returns true if rest is quote marks still waiting for the
// expression they quote.
func quoteOnly(rest []byte) bool {
	return len(bytes.Trim(rest, "' \t\r\n")) == 0
}

func snippet(b []byte) string {
	if len(b) > 16 {
		b = b[:16]
	}
	return string(b)
}

// Depth returns the number of lists left open at the end of text.  Depth is
// negative if text closes more lists than it opens.  Comments are ignored.
func Depth(text []byte) int {
	depth := 0
	comment := false
	for _, c := range text {
		switch {
		case comment:
			comment = c != '\n'
		case c == ';':
			comment = true
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	return depth
}

func (r *Reader) build(n *ast) (lisp.LVal, error) {
	switch n.typ {
	case nodeAtom:
		return r.atom(n.text), nil
	case nodeQuote:
		quoted, err := r.build(n.children[0])
		if err != nil {
			return lisp.Nil(), err
		}
		return r.heap.List(lisp.Symbol(r.quote), quoted)
	case nodeList:
		base := r.heap.StackLen()
		defer r.heap.Unwind(base)
		items := n.children
		tail := lisp.Nil()
		if n.dotted {
			var err error
			tail, err = r.build(items[len(items)-1])
			if err != nil {
				return lisp.Nil(), err
			}
			r.heap.Push(tail)
			items = items[:len(items)-1]
		}
		vals := make([]lisp.LVal, 0, len(items))
		for _, c := range items {
			v, err := r.build(c)
			if err != nil {
				return lisp.Nil(), err
			}
			r.heap.Push(v)
			vals = append(vals, v)
		}
		return r.heap.ListStar(tail, vals...)
	default:
		return lisp.Nil(), fmt.Errorf("reader: unexpected node type %v", n.typ)
	}
}

func (r *Reader) atom(text string) lisp.LVal {
	switch text {
	case "nil":
		return lisp.Nil()
	case "true":
		return lisp.True()
	case "false":
		return lisp.False()
	}
	if intPattern.MatchString(text) {
		x, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return lisp.Int(x)
		}
		// out of range integers read as symbols
	}
	return lisp.Symbol(r.table.Intern(text))
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	q := parsec.Atom("'", "QUOTE")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	atom := parsec.Token(`[^\s()';]+`, "ATOM")
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	list := parsec.And(astNode(nodeList), openP, exprList, closeP)
	quoted := parsec.And(astNode(nodeQuote), q, &expr)
	expr = parsec.OrdChoice(nil,
		parsec.And(astNode(nodeComment), comment),
		parsec.And(astNode(nodeAtom), atom),
		list,
		quoted,
	)
	return expr
}

type ast struct {
	typ      nodeType
	text     string
	pos      int
	dotted   bool
	children []*ast
}

func (n *ast) check() error {
	if n.typ == nodeQuote && len(n.children) != 1 {
		return &lisp.ParseError{Pos: n.pos, Msg: "nothing to quote"}
	}
	for _, c := range n.children {
		if c.typ == nodeAtom && c.text == "." {
			return &lisp.ParseError{Pos: c.pos, Msg: "misplaced dot"}
		}
		if err := c.check(); err != nil {
			return err
		}
	}
	return nil
}

func newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanParsecNodeList(nodes)
	n := &ast{typ: typ}
	switch typ {
	case nodeAtom, nodeComment:
		term := nodes[0].(*parsec.Terminal)
		n.text = term.Value
		n.pos = term.Position
	case nodeQuote, nodeList:
		// We don't want terminal parsec nodes for punctuation
		if term, ok := nodes[0].(*parsec.Terminal); ok {
			n.pos = term.Position
		}
		for _, c := range nodes {
			if c, ok := c.(*ast); ok && c.typ != nodeComment {
				n.children = append(n.children, c)
			}
		}
		if typ == nodeList {
			n.markDotted()
		}
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
	return n
}

// markDotted recognizes (a ... . b) and removes the dot from the children.
// Any other dot is left in place and reported by check.
func (n *ast) markDotted() {
	k := len(n.children)
	if k < 3 {
		return
	}
	dot := n.children[k-2]
	if dot.typ != nodeAtom || dot.text != "." {
		return
	}
	n.children = append(n.children[:k-2], n.children[k-1])
	n.dotted = true
}

func cleanParsecNodeList(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case []parsec.ParsecNode:
			nodes = append(nodes, cleanParsecNodeList(node)...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newAST(t, nodes)
	}
}

// Package eval implements a tree-walking evaluator for phoebe lisp.
//
// An Interp owns a heap, a symbol table, and a global namespace.  Multiple
// Interps are independent of each other.  An Interp is not safe for
// concurrent use.
package eval

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bmatsuo/phoebe/pkg/environ"
	"github.com/bmatsuo/phoebe/pkg/heap"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/reader"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// GlobalNamespaceName is the name of the namespace returned by
// Interp.GlobalNamespace.
const GlobalNamespaceName = "global"

// Interp evaluates lisp expressions.
type Interp struct {
	heap     *heap.Heap
	heapOpts []heap.Option
	symbols  symbol.Table
	reader   *reader.Reader
	global   lisp.LVal
	stack    *CallStack
	special  map[symbol.ID]specialForm
	keywords map[symbol.ID]bool
	sym      symbols
	stderr   io.Writer
	logger   *slog.Logger
}

// symbols the evaluator recognizes
type symbols struct {
	optional symbol.ID
	rest     symbol.ID
	key      symbol.ID
	nref     symbol.ID
	name     symbol.ID
	parent   symbol.ID
	contents symbol.ID
}

// Option configures an Interp.
type Option func(*Interp) error

// WithStderr sets the writer used for diagnostic output.
func WithStderr(w io.Writer) Option {
	return func(interp *Interp) error {
		if w == nil {
			return fmt.Errorf("nil stderr")
		}
		interp.stderr = w
		return nil
	}
}

// WithMaxHeight sets the maximum height of the call stack.  Evaluation that
// exceeds it fails with a StackOverflowError.  A height of zero removes the
// bound, leaving deep recursion limited only by the Go runtime.
func WithMaxHeight(n int) Option {
	return func(interp *Interp) error {
		if n < 0 {
			return fmt.Errorf("maximum stack height must not be negative: %d", n)
		}
		interp.stack.MaxHeight = n
		return nil
	}
}

// WithLogger sets the logger used by the interpreter and its heap.
func WithLogger(logger *slog.Logger) Option {
	return func(interp *Interp) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		interp.logger = logger
		return nil
	}
}

// WithHeapOptions configures the heap the interpreter allocates in.
func WithHeapOptions(opts ...heap.Option) Option {
	return func(interp *Interp) error {
		interp.heapOpts = append(interp.heapOpts, opts...)
		return nil
	}
}

// WithSymbols sets the symbol table.  By default each Interp has its own
// table.
func WithSymbols(table symbol.Table) Option {
	return func(interp *Interp) error {
		if table == nil {
			return fmt.Errorf("nil symbol table")
		}
		interp.symbols = table
		return nil
	}
}

// New returns an Interp whose global namespace contains no bindings.  Use
// AddBuiltins (or a library loader) to populate it.
func New(opts ...Option) (*Interp, error) {
	interp := &Interp{
		stack:    &CallStack{MaxHeight: DefaultMaxHeight},
		keywords: make(map[symbol.ID]bool),
		stderr:   os.Stderr,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(interp); err != nil {
			return nil, err
		}
	}
	if interp.symbols == nil {
		interp.symbols = symbol.NewTable()
	}
	hopts := append([]heap.Option{heap.WithLogger(interp.logger)}, interp.heapOpts...)
	h, err := heap.New(hopts...)
	if err != nil {
		return nil, err
	}
	interp.heap = h
	interp.reader = reader.New(h, interp.symbols)
	interp.sym = symbols{
		optional: interp.symbols.Intern(OptionalSymbol),
		rest:     interp.symbols.Intern(RestSymbol),
		key:      interp.symbols.Intern(KeySymbol),
		nref:     interp.symbols.Intern("nref"),
		name:     interp.symbols.Intern(":name"),
		parent:   interp.symbols.Intern(":parent"),
		contents: interp.symbols.Intern(":contents"),
	}
	interp.special = make(map[symbol.ID]specialForm, len(specialForms))
	for name, form := range specialForms {
		interp.special[interp.symbols.Intern(name)] = form
	}
	global, err := h.AllocNamespace(lisp.Nil(), interp.symbols.Intern(GlobalNamespaceName))
	if err != nil {
		return nil, err
	}
	// the global namespace stays pinned for the life of the interpreter
	h.Pin(global)
	interp.global = global
	return interp, nil
}

// Heap returns the heap that owns the interpreter's objects.
func (interp *Interp) Heap() *heap.Heap {
	return interp.heap
}

// Symbols returns the interpreter's symbol table.
func (interp *Interp) Symbols() symbol.Table {
	return interp.symbols
}

// Reader returns a reader that allocates on the interpreter's heap.
func (interp *Interp) Reader() *reader.Reader {
	return interp.reader
}

// GlobalNamespace returns the top-level namespace.
func (interp *Interp) GlobalNamespace() lisp.LVal {
	return interp.global
}

// Stderr returns the writer for diagnostic output.
func (interp *Interp) Stderr() io.Writer {
	return interp.stderr
}

// Logger returns the interpreter's logger.
func (interp *Interp) Logger() *slog.Logger {
	return interp.logger
}

// Stack returns the call stack.  The stack is empty between evaluations.
func (interp *Interp) Stack() *CallStack {
	return interp.stack
}

// Intern returns a symbol value with the given name.
func (interp *Interp) Intern(name string) lisp.LVal {
	return lisp.Symbol(interp.symbols.Intern(name))
}

// SymbolName returns the name of id.
func (interp *Interp) SymbolName(id symbol.ID) string {
	return symbol.String(id, interp.symbols)
}

// String returns the printed representation of v.
func (interp *Interp) String(v lisp.LVal) string {
	return interp.heap.String(v, interp.symbols)
}

// Format writes the printed representation of v to w.
func (interp *Interp) Format(w io.Writer, v lisp.LVal) (int, error) {
	return interp.heap.Format(w, v, interp.symbols)
}

// Pin keeps v alive across evaluations until release is called.
func (interp *Interp) Pin(v lisp.LVal) (release func()) {
	return interp.heap.Pin(v)
}

// Lookup returns the value bound to id in the namespace chain starting at ns.
func (interp *Interp) Lookup(ns lisp.LVal, id symbol.ID) (lisp.LVal, error) {
	return environ.Lookup(interp.heap, ns, id)
}

// Define binds id to v in ns.
func (interp *Interp) Define(ns lisp.LVal, id symbol.ID, v lisp.LVal) error {
	return environ.Define(interp.heap, ns, id, v)
}

// Assign updates the nearest existing binding of id, starting at ns.
func (interp *Interp) Assign(ns lisp.LVal, id symbol.ID, v lisp.LVal) error {
	return environ.Assign(interp.heap, ns, id, v)
}

// Eval evaluates expr in the namespace ns.  The caller must ensure expr and
// ns are reachable from a root.  The result is not rooted: pin it or bind it
// before evaluating anything else.  Errors are returned as *RuntimeError.
// Side effects committed before an error are not rolled back.
func (interp *Interp) Eval(expr, ns lisp.LVal) (lisp.LVal, error) {
	base := interp.heap.StackLen()
	height := interp.stack.Height()
	v, err := interp.eval(expr, ns)
	interp.heap.Unwind(base)
	if height != interp.stack.Height() {
		panic("eval: call stack not restored")
	}
	if err != nil {
		return lisp.Nil(), interp.boundary(err)
	}
	return v, nil
}

func (interp *Interp) boundary(err error) error {
	err = interp.associate(err)
	lisp.Describe(err, interp.symbols, interp.String)
	var so *lisp.StackOverflowError
	if errors.As(err, &so) {
		interp.logger.Warn("stack overflow", slog.Int("max-height", so.Height))
	}
	return err
}

// Apply calls fn with args in a new call frame.  The args must be rooted.
func (interp *Interp) Apply(fn lisp.LVal, args []lisp.LVal) (lisp.LVal, error) {
	if err := interp.stack.Push(CallFrame{}); err != nil {
		return lisp.Nil(), err
	}
	defer interp.stack.Pop()
	return interp.apply(fn, args)
}

// EvalEach reads every expression in text and evaluates them in order in
// ns, calling fn with each result.  Evaluation stops at the first error.
func (interp *Interp) EvalEach(text []byte, ns lisp.LVal, fn func(lisp.LVal) error) error {
	prog, err := interp.reader.ReadProgram(text)
	if err != nil {
		return err
	}
	release := interp.heap.Pin(prog)
	defer release()
	forms, err := interp.heap.Slice(prog)
	if err != nil {
		return err
	}
	for _, form := range forms {
		v, err := interp.Eval(form, ns)
		if err != nil {
			return err
		}
		if fn != nil {
			if err := fn(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// EvalProgram evaluates every expression in text in ns and returns the value
// of the last one.  Like Eval the result is not rooted.
func (interp *Interp) EvalProgram(text []byte, ns lisp.LVal) (lisp.LVal, error) {
	v := lisp.Nil()
	err := interp.EvalEach(text, ns, func(x lisp.LVal) error {
		v = x
		return nil
	})
	if err != nil {
		return lisp.Nil(), err
	}
	return v, nil
}

// EvalString evaluates src in the global namespace.
func (interp *Interp) EvalString(src string) (lisp.LVal, error) {
	return interp.EvalProgram([]byte(src), interp.global)
}

// Collect runs a garbage collection and returns the number of objects freed.
func (interp *Interp) Collect() int {
	return interp.heap.Collect()
}

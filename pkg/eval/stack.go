package eval

import (
	"fmt"
	"io"

	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/bmatsuo/phoebe/pkg/symbol"
)

// DefaultMaxHeight is the default maximum height of the call stack.
const DefaultMaxHeight = 10000

// FrameKind describes what a CallFrame is evaluating.
type FrameKind uint8

const (
	// FrameExpr is a compound expression that has not been dispatched yet.
	FrameExpr FrameKind = iota
	FrameSpecial
	FrameBuiltin
	FrameClosure
)

var frameKindStrings = []string{
	FrameExpr:    "",
	FrameSpecial: "special",
	FrameBuiltin: "builtin",
	FrameClosure: "function",
}

func (k FrameKind) String() string {
	if int(k) >= len(frameKindStrings) {
		return fmt.Sprintf("FrameKind(%d)", uint8(k))
	}
	return frameKindStrings[k]
}

// CallStack is the stack of compound expressions being evaluated.
type CallStack struct {
	Frames []CallFrame
	// MaxHeight is the maximum number of frames.  A MaxHeight of zero means
	// the height is unbounded.
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	// Name is the symbol at the head of the expression, or zero.
	Name symbol.ID
	Kind FrameKind
}

// Height returns the number of frames on s.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Push pushes f onto s.  Push returns a StackOverflowError instead if s is
// already at its maximum height.
func (s *CallStack) Push(f CallFrame) error {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return &lisp.StackOverflowError{Height: s.MaxHeight}
	}
	s.Frames = append(s.Frames, f)
	return nil
}

// Pop removes the top CallFrame from the stack and returns it.  Pop panics
// if the stack is empty.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Copy creates a copy of the current stack so that it can be attached to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{Frames: frames, MaxHeight: s.MaxHeight}
}

// DebugPrint prints s, naming symbols with table.
func (s *CallStack) DebugPrint(w io.Writer, table symbol.Table) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	for i := len(s.Frames) - 1; i >= 0; i-- {
		f := s.Frames[i]
		name := "<expression>"
		if f.Name != 0 {
			name = symbol.String(f.Name, table)
		}
		var _n int
		if f.Kind == FrameExpr {
			_n, err = fmt.Fprintf(w, "  height %d: %s\n", i, name)
		} else {
			_n, err = fmt.Fprintf(w, "  height %d: %s [%v]\n", i, name, f.Kind)
		}
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

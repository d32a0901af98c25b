// Package repl implements an interactive read-eval-print loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/chzyer/readline"
)

// ResultSymbol is bound in the global namespace to the most recent result.
const ResultSymbol = "_"

// RunRepl runs a repl reading from the terminal until EOF.
func RunRepl(interp *eval.Interp, prompt string) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()
	contPrompt := strings.Repeat(" ", len(prompt)) // prompt had better be ascii...

	s := NewSession(interp, rl.Stdout(), rl.Stderr())
	for {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			s.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if s.Feed(line) {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
}

// Session evaluates lines of input, buffering expressions that span lines.
type Session struct {
	interp  *eval.Interp
	stdout  io.Writer
	stderr  io.Writer
	buf     []byte
	release func()
}

// NewSession returns a Session that prints results to stdout and errors to
// stderr.
func NewSession(interp *eval.Interp, stdout, stderr io.Writer) *Session {
	return &Session{
		interp: interp,
		stdout: stdout,
		stderr: stderr,
	}
}

// Feed evaluates every complete expression in the buffered input followed by
// line.  Feed returns true if the input ends inside an unterminated
// expression, in which case nothing is evaluated until more input arrives.
func (s *Session) Feed(line []byte) bool {
	if len(s.buf) != 0 {
		s.buf = append(s.buf, '\n')
	}
	s.buf = append(s.buf, line...)
	if len(strings.TrimSpace(string(s.buf))) == 0 {
		s.buf = s.buf[:0]
		return false
	}
	interp := s.interp
	err := interp.EvalEach(s.buf, interp.GlobalNamespace(), func(v lisp.LVal) error {
		s.setResult(v)
		if _, err := interp.Format(s.stdout, v); err != nil {
			return err
		}
		_, err := fmt.Fprintln(s.stdout)
		return err
	})
	var perr *lisp.ParseError
	if errors.As(err, &perr) && perr.Incomplete {
		return true
	}
	s.buf = s.buf[:0]
	if err != nil {
		s.errln(err)
		var rerr *eval.RuntimeError
		if errors.As(err, &rerr) && len(rerr.Stack.Frames) > 0 && !lisp.IsFatal(err) {
			rerr.Stack.DebugPrint(s.stderr, interp.Symbols())
		}
	}
	return false
}

// Reset discards buffered input.
func (s *Session) Reset() {
	s.buf = s.buf[:0]
}

// setResult pins v and binds it to ResultSymbol so that it survives until the
// next result replaces it.
func (s *Session) setResult(v lisp.LVal) {
	if s.release != nil {
		s.release()
	}
	s.release = s.interp.Pin(v)
	id := s.interp.Symbols().Intern(ResultSymbol)
	err := s.interp.Define(s.interp.GlobalNamespace(), id, v)
	if err != nil {
		s.errln(err)
	}
}

func (s *Session) errln(v ...interface{}) {
	fmt.Fprintln(s.stderr, v...)
}

package eval

import (
	"errors"
)

// RuntimeError is an evaluation error together with the call stack at the
// point it was signaled.
type RuntimeError struct {
	Err   error
	Stack *CallStack
}

func (e *RuntimeError) Error() string {
	return e.Err.Error()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// associate attaches a copy of the current call stack to err unless a stack
// has already been attached.
func (interp *Interp) associate(err error) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return err
	}
	return &RuntimeError{Err: err, Stack: interp.stack.Copy()}
}

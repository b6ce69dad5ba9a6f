package interpreter

import (
	"errors"
	"fmt"
)

var (
	// ErrReturn unwinds statement execution up to the enclosing call.
	ErrReturn = errors.New("return")

	ErrName          = errors.New("name error")
	ErrField         = errors.New("field error")
	ErrType          = errors.New("type error")
	ErrDivideByZero  = errors.New("division by zero")
	ErrArity         = errors.New("arity error")
	ErrStackOverflow = errors.New("stack overflow")
)

// RuntimeError aborts the running program. Kind is one of the sentinel
// errors above and is exposed through Unwrap.
type RuntimeError struct {
	Kind error
	Line int
	Msg  string
}

func newRuntimeError(kind error, line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Kind: kind,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (e *RuntimeError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
	}

	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Kind, e.Msg)
}

func (e *RuntimeError) Unwrap() error {
	return e.Kind
}

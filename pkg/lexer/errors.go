package lexer

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// PositionError is a diagnostic tied to a line of source. Where is empty for
// lexical errors, " at end" when raised on EOF, or " at 'lexeme'".
type PositionError struct {
	Line  int
	Col   int
	Where string
	Msg   string

	Err error
}

func (e PositionError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Msg)
}

func (e PositionError) Unwrap() error {
	return e.Err
}

// ErrorSet collects diagnostics in source order. A diagnostic repeated at
// the same position is kept once; errors without a position sort last.
type ErrorSet struct {
	Errs []error
}

func NewErrorSet() *ErrorSet {
	return new(ErrorSet)
}

func (e *ErrorSet) Add(err error) {
	var subErrs *ErrorSet
	if errors.As(err, &subErrs) {
		for _, sub := range subErrs.Errs {
			e.add(sub)
		}
		return
	}

	e.add(err)
}

func (e *ErrorSet) add(err error) {
	pos, hasPos := position(err)
	if hasPos {
		for _, existing := range e.Errs {
			if other, ok := position(existing); ok && other == pos {
				return
			}
		}
	}

	e.Errs = append(e.Errs, err)
	slices.SortStableFunc(e.Errs, comparePositions)
}

func position(err error) (PositionError, bool) {
	var pos PositionError
	if !errors.As(err, &pos) {
		return PositionError{}, false
	}

	pos.Err = nil
	return pos, true
}

func comparePositions(a, b error) int {
	pa, aok := position(a)
	pb, bok := position(b)

	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	case pa.Line != pb.Line:
		return cmp.Compare(pa.Line, pb.Line)
	default:
		return cmp.Compare(pa.Col, pb.Col)
	}
}

func (e *ErrorSet) Len() int {
	return len(e.Errs)
}

func (e ErrorSet) Error() string {
	return errors.Join(e.Errs...).Error()
}

func (e ErrorSet) Unwrap() []error {
	return e.Errs
}

// Defer folds err into the set and returns the set, or nil when it is empty.
func (e *ErrorSet) Defer(err error) error {
	if err != nil && e != err {
		e.Add(err)
	}

	if len(e.Errs) == 0 {
		return nil
	}

	return e
}

package interpreter

import (
	"fmt"

	"github.com/rhino1998/lox/pkg/token"
)

func (s *Interpreter) binaryOperate(op token.Token, lhs, rhs Value) (Value, error) {
	switch op.Kind {
	case token.Plus:
		switch lhs := lhs.(type) {
		case Number:
			if rhs, ok := rhs.(Number); ok {
				return lhs + rhs, nil
			}
		case String:
			if rhs, ok := rhs.(String); ok {
				return lhs + rhs, nil
			}
		}

		return nil, newRuntimeError(ErrType, op.Line, "operands of '+' must be two numbers or two strings, got %s and %s", lhs.Kind(), rhs.Kind())
	case token.Minus, token.Star, token.Slash,
		token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		l, r, err := s.numbersOrFail(op, lhs, rhs)
		if err != nil {
			return nil, err
		}

		switch op.Kind {
		case token.Minus:
			return l - r, nil
		case token.Star:
			return l * r, nil
		case token.Slash:
			if r == 0 {
				return nil, newRuntimeError(ErrDivideByZero, op.Line, "")
			}
			return l / r, nil
		case token.Greater:
			return Bool(l > r), nil
		case token.GreaterEqual:
			return Bool(l >= r), nil
		case token.Less:
			return Bool(l < r), nil
		default:
			return Bool(l <= r), nil
		}
	case token.EqualEqual:
		return Bool(valuesEqual(lhs, rhs)), nil
	case token.BangEqual:
		return Bool(!valuesEqual(lhs, rhs)), nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %q", op.Lexeme)
	}
}

func (s *Interpreter) unaryOperate(op token.Token, val Value) (Value, error) {
	switch op.Kind {
	case token.Minus:
		n, ok := val.(Number)
		if !ok {
			return nil, newRuntimeError(ErrType, op.Line, "operand of '-' must be a number, got %s", val.Kind())
		}

		return -n, nil
	case token.Bang:
		return Bool(!isTruthy(val)), nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %q", op.Lexeme)
	}
}

func (s *Interpreter) numbersOrFail(op token.Token, lhs, rhs Value) (Number, Number, error) {
	l, lok := lhs.(Number)
	r, rok := rhs.(Number)
	if !lok || !rok {
		return 0, 0, newRuntimeError(ErrType, op.Line, "operands of '%s' must be numbers, got %s and %s", op.Lexeme, lhs.Kind(), rhs.Kind())
	}

	return l, r, nil
}

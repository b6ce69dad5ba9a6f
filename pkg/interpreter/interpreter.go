package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rhino1998/lox/pkg/parser"
	"github.com/rhino1998/lox/pkg/token"
)

const DefaultMaxCallDepth = 1024

type Config struct {
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout io.Writer

	// Permissive makes undefined variables and properties read as nil and
	// assignments to undeclared names do nothing, instead of failing.
	Permissive bool

	// MaxCallDepth bounds nested calls. Zero selects DefaultMaxCallDepth.
	MaxCallDepth int
}

func (c *Config) Validate(logger *slog.Logger) error {
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("max call depth must not be negative, got %d", c.MaxCallDepth)
	}

	if c.Permissive {
		logger.Debug("permissive name resolution enabled")
	}

	return nil
}

type Interpreter struct {
	logger *slog.Logger
	config Config

	stdout  io.Writer
	globals *Scope

	depth    int
	maxDepth int
}

// env is the implicit context of every statement and expression: the
// current frame, the bound receiver and the class whose body lexically
// contains the running code.
type env struct {
	scope    *Scope
	receiver *Instance
	class    *Class
}

func (e env) withScope(scope *Scope) env {
	e.scope = scope
	return e
}

func New(logger *slog.Logger, config Config) (*Interpreter, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	err := config.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate interpreter config: %w", err)
	}

	stdout := config.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	maxDepth := config.MaxCallDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxCallDepth
	}

	return &Interpreter{
		logger:   logger,
		config:   config,
		stdout:   stdout,
		globals:  newScope(nil, "global"),
		maxDepth: maxDepth,
	}, nil
}

// Globals is the outermost frame. It persists across Interpret calls.
func (s *Interpreter) Globals() *Scope {
	return s.globals
}

// Interpret executes stmts in order against the global frame. The first
// runtime error stops execution and is returned.
func (s *Interpreter) Interpret(stmts []parser.Stmt) error {
	global := env{scope: s.globals}

	for _, stmt := range stmts {
		var ret Value
		err := s.executeStatement(global, stmt, &ret)
		if err != nil {
			if errors.Is(err, ErrReturn) {
				return nil
			}

			return err
		}
	}

	return nil
}

// Evaluate evaluates a single expression against the global frame.
func (s *Interpreter) Evaluate(expr parser.Expr) (Value, error) {
	return s.executeExpression(env{scope: s.globals}, expr)
}

func (s *Interpreter) executeBlock(e env, stmts []parser.Stmt, ret *Value) error {
	for _, stmt := range stmts {
		err := s.executeStatement(e, stmt, ret)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Interpreter) executeStatement(e env, stmt parser.Stmt, ret *Value) error {
	switch stmt := stmt.(type) {
	case *parser.ExprStmt:
		_, err := s.executeExpression(e, stmt.Expr)
		return err
	case *parser.PrintStmt:
		val, err := s.executeExpression(e, stmt.Expr)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(s.stdout, val.String())
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		return nil
	case *parser.VarStmt:
		var val Value = Nil{}
		if stmt.Init != nil {
			var err error
			val, err = s.executeExpression(e, stmt.Init)
			if err != nil {
				return err
			}
		}

		e.scope.Declare(stmt.Name.Lexeme, val)
		return nil
	case *parser.BlockStmt:
		return s.executeBlock(e.withScope(newScope(e.scope, "block")), stmt.Body, ret)
	case *parser.IfStmt:
		cond, err := s.executeExpression(e, stmt.Condition)
		if err != nil {
			return err
		}

		if isTruthy(cond) {
			return s.executeStatement(e, stmt.Then, ret)
		} else if stmt.Else != nil {
			return s.executeStatement(e, stmt.Else, ret)
		}

		return nil
	case *parser.WhileStmt:
		for {
			cond, err := s.executeExpression(e, stmt.Condition)
			if err != nil {
				return err
			}

			if !isTruthy(cond) {
				return nil
			}

			err = s.executeStatement(e, stmt.Body, ret)
			if err != nil {
				return err
			}
		}
	case *parser.FunctionStmt:
		fn := s.newFunction(e, stmt)
		e.scope.Declare(fn.Name, fn)

		if e.receiver != nil {
			e.receiver.Put(fn.Name, e.class, fn)
		}

		return nil
	case *parser.ReturnStmt:
		if stmt.Value == nil {
			*ret = Uninitialized{}
			return ErrReturn
		}

		val, err := s.executeExpression(e, stmt.Value)
		if err != nil {
			return err
		}

		*ret = val
		return ErrReturn
	case *parser.ClassStmt:
		return s.declareClass(e, stmt)
	default:
		return fmt.Errorf("unhandled statement type: %T", stmt)
	}
}

func (s *Interpreter) executeExpression(e env, expr parser.Expr) (Value, error) {
	switch expr := expr.(type) {
	case *parser.LiteralExpr:
		return fromLiteral(expr.Value)
	case *parser.GroupingExpr:
		return s.executeExpression(e, expr.Expr)
	case *parser.VariableExpr:
		return s.lookupVariable(e, expr.Name)
	case *parser.AssignExpr:
		val, err := s.executeExpression(e, expr.Value)
		if err != nil {
			return nil, err
		}

		if !e.scope.Assign(expr.Name.Lexeme, val) && !s.config.Permissive {
			return nil, newRuntimeError(ErrName, expr.Name.Line, "undefined variable '%s'", expr.Name.Lexeme)
		}

		return val, nil
	case *parser.LogicalExpr:
		lhs, err := s.executeExpression(e, expr.Left)
		if err != nil {
			return nil, err
		}

		if expr.Operator.Kind == token.Or {
			if isTruthy(lhs) {
				return lhs, nil
			}
		} else if !isTruthy(lhs) {
			return lhs, nil
		}

		return s.executeExpression(e, expr.Right)
	case *parser.BinaryExpr:
		lhs, err := s.executeExpression(e, expr.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := s.executeExpression(e, expr.Right)
		if err != nil {
			return nil, err
		}

		return s.binaryOperate(expr.Operator, lhs, rhs)
	case *parser.UnaryExpr:
		val, err := s.executeExpression(e, expr.Right)
		if err != nil {
			return nil, err
		}

		return s.unaryOperate(expr.Operator, val)
	case *parser.CallExpr:
		callee, err := s.executeExpression(e, expr.Callee)
		if err != nil {
			return nil, err
		}

		args := make([]Value, 0, len(expr.Args))
		for _, arg := range expr.Args {
			val, err := s.executeExpression(e, arg)
			if err != nil {
				return nil, err
			}

			args = append(args, val)
		}

		return s.call(callee, args, expr.Paren.Line)
	case *parser.GetExpr:
		obj, err := s.executeExpression(e, expr.Object)
		if err != nil {
			return nil, err
		}

		return s.getProperty(obj, expr.Name)
	case *parser.SetExpr:
		obj, err := s.executeExpression(e, expr.Object)
		if err != nil {
			return nil, err
		}

		val, err := s.executeExpression(e, expr.Value)
		if err != nil {
			return nil, err
		}

		return s.setProperty(obj, expr.Name, val)
	case *parser.ThisExpr:
		if e.receiver == nil {
			return nil, newRuntimeError(ErrType, expr.Keyword.Line, "can't use 'this' outside of a class")
		}

		return e.receiver, nil
	case *parser.SuperExpr:
		return s.superMethod(e, expr)
	default:
		return nil, fmt.Errorf("unhandled expression type: %T", expr)
	}
}

func (s *Interpreter) lookupVariable(e env, name token.Token) (Value, error) {
	val, ok := e.scope.Get(name.Lexeme)
	if !ok {
		if s.config.Permissive {
			return Nil{}, nil
		}

		return nil, newRuntimeError(ErrName, name.Line, "undefined variable '%s'", name.Lexeme)
	}

	return val, nil
}

func (s *Interpreter) newFunction(e env, decl *parser.FunctionStmt) *Function {
	return &Function{
		Name:     decl.Name.Lexeme,
		Params:   decl.Params,
		Body:     decl.Body,
		Closure:  e.scope,
		Receiver: e.receiver,
		Class:    e.class,
	}
}

func (s *Interpreter) call(callee Value, args []Value, line int) (Value, error) {
	switch callee := callee.(type) {
	case *Function:
		return s.callFunction(callee, args, line)
	case *Class:
		return s.instantiate(callee, args, line)
	default:
		return nil, newRuntimeError(ErrType, line, "can only call functions and classes, got %s", callee.Kind())
	}
}

// callFunction runs fn in a fresh frame whose parent is the frame fn closed
// over, not the caller's.
func (s *Interpreter) callFunction(fn *Function, args []Value, line int) (Value, error) {
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(ErrArity, line, "%s expected %d arguments but got %d", fn.Name, fn.Arity(), len(args))
	}

	if s.depth >= s.maxDepth {
		return nil, newRuntimeError(ErrStackOverflow, line, "more than %d nested calls", s.maxDepth)
	}

	s.depth++
	defer func() { s.depth-- }()

	scope := newScope(fn.Closure, fn.Name)
	for i, param := range fn.Params {
		scope.Declare(param.Lexeme, args[i])
	}

	s.logger.Debug("call",
		slog.String("function", fn.Name),
		slog.Uint64("frame", scope.ID()),
		slog.String("closure", fn.Closure.Name()),
		slog.Int("frame_depth", scope.Depth()),
		slog.Int("depth", s.depth),
	)

	var ret Value
	err := s.executeBlock(env{scope: scope, receiver: fn.Receiver, class: fn.Class}, fn.Body, &ret)
	if err != nil {
		if errors.Is(err, ErrReturn) {
			return ret, nil
		}

		return nil, err
	}

	return Nil{}, nil
}

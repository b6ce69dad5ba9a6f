package interpreter

import (
	"log/slog"

	"github.com/rhino1998/lox/pkg/parser"
	"github.com/rhino1998/lox/pkg/token"
)

const initializerName = "init"

func (s *Interpreter) declareClass(e env, stmt *parser.ClassStmt) error {
	var superclass *Class
	if stmt.Superclass != nil {
		val, err := s.lookupVariable(e, stmt.Superclass.Name)
		if err != nil {
			return err
		}

		var ok bool
		superclass, ok = val.(*Class)
		if !ok {
			return newRuntimeError(ErrType, stmt.Superclass.Name.Line, "superclass of '%s' must be a class, got %s", stmt.Name.Lexeme, val.Kind())
		}
	}

	class := &Class{
		Name:       stmt.Name.Lexeme,
		Superclass: superclass,
		Methods:    stmt.Methods,
		Closure:    e.scope,
	}

	e.scope.Declare(class.Name, class)

	s.logger.Debug("declare class",
		slog.String("class", class.Name),
		slog.String("superclass", class.SuperclassName()),
		slog.Int("methods", len(class.Methods)),
	)

	return nil
}

// instantiate materializes every method of the class chain as a closure
// bound to the new instance, then runs the nearest init.
func (s *Interpreter) instantiate(class *Class, args []Value, line int) (Value, error) {
	inst := newInstance(class)

	for _, level := range class.Chain() {
		methodEnv := env{scope: level.Closure, receiver: inst, class: level}
		for _, method := range level.Methods {
			inst.Put(method.Name.Lexeme, level, s.newFunction(methodEnv, method))
		}
	}

	s.logger.Debug("instantiate",
		slog.String("class", class.Name),
		slog.Int("levels", len(class.Chain())),
	)

	v, ok := inst.Lookup(initializerName, class)
	if !ok {
		if len(args) != 0 {
			return nil, newRuntimeError(ErrArity, line, "%s expected 0 arguments but got %d", class.Name, len(args))
		}

		return inst, nil
	}

	_, err := s.call(v.Get(), args, line)
	if err != nil {
		return nil, err
	}

	return inst, nil
}

func (s *Interpreter) getProperty(obj Value, name token.Token) (Value, error) {
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(ErrType, name.Line, "only instances have properties, got %s", obj.Kind())
	}

	val, ok := inst.Get(name.Lexeme)
	if !ok {
		if s.config.Permissive {
			return Nil{}, nil
		}

		return nil, newRuntimeError(ErrField, name.Line, "undefined property '%s' on %s", name.Lexeme, inst)
	}

	return val, nil
}

func (s *Interpreter) setProperty(obj Value, name token.Token, val Value) (Value, error) {
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(ErrType, name.Line, "only instances have fields, got %s", obj.Kind())
	}

	inst.Set(name.Lexeme, val)
	return val, nil
}

// superMethod resolves relative to the class that defines the running
// method, not the receiver's own class.
func (s *Interpreter) superMethod(e env, expr *parser.SuperExpr) (Value, error) {
	if e.receiver == nil || e.class == nil {
		return nil, newRuntimeError(ErrType, expr.Keyword.Line, "can't use 'super' outside of a class")
	}

	if e.class.Superclass == nil {
		return nil, newRuntimeError(ErrType, expr.Keyword.Line, "can't use 'super' in class '%s' with no superclass", e.class.Name)
	}

	v, ok := e.receiver.Lookup(expr.Method.Lexeme, e.class.Superclass)
	if !ok {
		return nil, newRuntimeError(ErrField, expr.Method.Line, "undefined property '%s' on superclass '%s'", expr.Method.Lexeme, e.class.SuperclassName())
	}

	return v.Get(), nil
}

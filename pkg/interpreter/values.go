package interpreter

import (
	"fmt"
	"strconv"

	"github.com/rhino1998/lox/pkg/parser"
	"github.com/rhino1998/lox/pkg/token"
)

type Kind int

const (
	KindNil Kind = iota
	KindUninitialized
	KindNumber
	KindString
	KindBool
	KindFunction
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindUninitialized:
		return "uninitialized"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Value interface {
	Kind() Kind
	String() string
}

type Number float64

func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

type String string

func (String) Kind() Kind { return KindString }

func (s String) String() string { return string(s) }

type Bool bool

func (Bool) Kind() Kind { return KindBool }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

type Nil struct{}

func (Nil) Kind() Kind { return KindNil }

func (Nil) String() string { return "nil" }

// Uninitialized is the result of a bare `return;`. It prints like nil but
// never compares equal to it.
type Uninitialized struct{}

func (Uninitialized) Kind() Kind { return KindUninitialized }

func (Uninitialized) String() string { return "nil" }

// Function is a closure. Closure is the scope chain live at the point the
// function value was created; Receiver and Class are set for methods and
// for functions declared inside method bodies.
type Function struct {
	Name    string
	Params  []token.Token
	Body    []parser.Stmt
	Closure *Scope

	Receiver *Instance
	Class    *Class
}

func (*Function) Kind() Kind { return KindFunction }

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Name)
}

func (f *Function) Arity() int {
	return len(f.Params)
}

// Class keeps its method declarations unevaluated; they are turned into
// closures once per instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    []*parser.FunctionStmt
	Closure    *Scope
}

func (*Class) Kind() Kind { return KindClass }

func (c *Class) String() string { return c.Name }

// SuperclassName is empty for a base class.
func (c *Class) SuperclassName() string {
	if c.Superclass == nil {
		return ""
	}

	return c.Superclass.Name
}

// Chain yields the class and its ancestors, most derived first.
func (c *Class) Chain() []*Class {
	var chain []*Class
	for level := c; level != nil; level = level.Superclass {
		chain = append(chain, level)
	}

	return chain
}

// member keys an instance slot by name and by the class that owns it, so a
// superclass method can still reach its own slot after a subclass shadows
// the name.
type member struct {
	name  string
	owner *Class
}

type Instance struct {
	Class  *Class
	fields map[member]*Variable
}

func newInstance(class *Class) *Instance {
	return &Instance{
		Class:  class,
		fields: make(map[member]*Variable),
	}
}

func (*Instance) Kind() Kind { return KindInstance }

func (i *Instance) String() string {
	return fmt.Sprintf("%s instance", i.Class.Name)
}

// Lookup searches the slots owned by from and its ancestors, most derived
// first.
func (i *Instance) Lookup(name string, from *Class) (*Variable, bool) {
	for level := from; level != nil; level = level.Superclass {
		if v, ok := i.fields[member{name: name, owner: level}]; ok {
			return v, true
		}
	}

	return nil, false
}

// Get resolves name starting at the instance's own class.
func (i *Instance) Get(name string) (Value, bool) {
	v, ok := i.Lookup(name, i.Class)
	if !ok {
		return nil, false
	}

	return v.Get(), true
}

// Put writes the slot owned by owner, creating it when missing.
func (i *Instance) Put(name string, owner *Class, val Value) {
	key := member{name: name, owner: owner}
	if v, ok := i.fields[key]; ok {
		v.Set(val)
		return
	}

	i.fields[key] = NewVariable(val)
}

// Set always targets the slot of the instance's own class.
func (i *Instance) Set(name string, val Value) {
	i.Put(name, i.Class, val)
}

func isTruthy(val Value) bool {
	b, ok := val.(Bool)
	return !ok || bool(b)
}

func valuesEqual(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a := a.(type) {
	case Number, String, Bool, Nil, Uninitialized:
		return a == b
	case *Function:
		return a == b.(*Function)
	case *Class:
		return a == b.(*Class)
	case *Instance:
		return a == b.(*Instance)
	default:
		return false
	}
}

func fromLiteral(lit any) (Value, error) {
	switch lit := lit.(type) {
	case nil:
		return Nil{}, nil
	case float64:
		return Number(lit), nil
	case string:
		return String(lit), nil
	case bool:
		return Bool(lit), nil
	default:
		return nil, fmt.Errorf("unhandled literal type: %T", lit)
	}
}

package interpreter

import "sync/atomic"

var scopeIDs atomic.Uint64

// Scope is one frame of the scope chain. Frames are created on block entry
// and on every call; a frame stays alive for as long as a closure holds it.
type Scope struct {
	id     uint64
	parent *Scope
	name   string
	scope  map[string]*Variable
}

func newScope(parent *Scope, name string) *Scope {
	return &Scope{
		id:     scopeIDs.Add(1),
		scope:  make(map[string]*Variable),
		name:   name,
		parent: parent,
	}
}

func (s *Scope) ID() uint64 {
	return s.id
}

func (s *Scope) Name() string {
	return s.name
}

// Depth is the number of enclosing frames.
func (s *Scope) Depth() int {
	depth := 0
	for p := s.parent; p != nil; p = p.parent {
		depth++
	}

	return depth
}

// Declare binds name in this frame, replacing any previous binding here and
// shadowing bindings in enclosing frames.
func (s *Scope) Declare(name string, value Value) {
	s.scope[name] = NewVariable(value)
}

// Resolve returns the nearest binding of name, walking outward.
func (s *Scope) Resolve(name string) (*Variable, bool) {
	if s == nil {
		return nil, false
	}

	v, ok := s.scope[name]
	if ok {
		return v, true
	}

	return s.parent.Resolve(name)
}

// Get is Resolve followed by a read of the cell.
func (s *Scope) Get(name string) (Value, bool) {
	v, ok := s.Resolve(name)
	if !ok {
		return nil, false
	}

	return v.Get(), true
}

// Assign rewrites the nearest existing binding of name in place. It never
// creates a binding and reports whether one was found.
func (s *Scope) Assign(name string, value Value) bool {
	v, ok := s.Resolve(name)
	if !ok {
		return false
	}

	v.Set(value)
	return true
}

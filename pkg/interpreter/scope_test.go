package interpreter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScope_DeclareAndShadow(t *testing.T) {
	r := require.New(t)

	global := newScope(nil, "global")
	global.Declare("x", Number(1))

	inner := newScope(global, "block")
	val, ok := inner.Get("x")
	r.True(ok)
	r.Equal(Number(1), val)

	inner.Declare("x", Number(2))
	val, ok = inner.Get("x")
	r.True(ok)
	r.Equal(Number(2), val)

	val, ok = global.Get("x")
	r.True(ok)
	r.Equal(Number(1), val)
}

func TestScope_AssignNearest(t *testing.T) {
	r := require.New(t)

	global := newScope(nil, "global")
	global.Declare("x", Number(1))

	middle := newScope(global, "block")
	middle.Declare("x", Number(2))

	inner := newScope(middle, "block")
	r.True(inner.Assign("x", Number(3)))

	val, _ := middle.Get("x")
	r.Equal(Number(3), val)

	val, _ = global.Get("x")
	r.Equal(Number(1), val)

	_, ok := inner.Resolve("x")
	r.True(ok)
	r.Empty(inner.scope, "assignment must not create a binding in the current frame")
}

func TestScope_AssignUndeclared(t *testing.T) {
	r := require.New(t)

	scope := newScope(newScope(nil, "global"), "block")
	r.False(scope.Assign("missing", Number(1)))

	_, ok := scope.Get("missing")
	r.False(ok)
}

func TestScope_SharedCells(t *testing.T) {
	r := require.New(t)

	global := newScope(nil, "global")
	global.Declare("counter", Number(0))

	a := newScope(global, "a")
	b := newScope(global, "b")

	r.True(a.Assign("counter", Number(5)))

	val, ok := b.Get("counter")
	r.True(ok)
	r.Equal(Number(5), val)

	va, _ := a.Resolve("counter")
	vb, _ := b.Resolve("counter")
	r.Same(va, vb)
}

func TestScope_IDsAndDepth(t *testing.T) {
	r := require.New(t)

	global := newScope(nil, "global")
	block := newScope(global, "block")
	fn := newScope(block, "f")

	r.NotEqual(global.ID(), block.ID())
	r.NotEqual(block.ID(), fn.ID())
	r.Equal(0, global.Depth())
	r.Equal(2, fn.Depth())
	r.Same(block, fn.parent)
	r.Equal("f", fn.Name())
}

func TestScope_RedeclareReplaces(t *testing.T) {
	r := require.New(t)

	global := newScope(nil, "global")
	global.Declare("x", Number(1))
	before, _ := global.Resolve("x")

	global.Declare("x", String("again"))
	after, _ := global.Resolve("x")

	r.NotSame(before, after)
	r.Equal(String("again"), after.Get())
	r.Equal(Number(1), before.Get())
}

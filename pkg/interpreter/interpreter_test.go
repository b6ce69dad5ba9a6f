package interpreter_test

import (
	"bytes"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rhino1998/lox/pkg/interpreter"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/stretchr/testify/require"
)

func newInterpreter(t *testing.T, config interpreter.Config) (*interpreter.Interpreter, *bytes.Buffer) {
	t.Helper()

	var output bytes.Buffer
	config.Stdout = &output

	interp, err := interpreter.New(slogt.New(t), config)
	require.NoError(t, err)

	return interp, &output
}

func run(t *testing.T, interp *interpreter.Interpreter, src string) error {
	t.Helper()

	stmts, err := parser.ParseString(src)
	require.NoError(t, err)

	return interp.Interpret(stmts)
}

func TestInterpret_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind error
	}{
		{"undefined variable", "print nope;", interpreter.ErrName},
		{"assign undeclared", "nope = 1;", interpreter.ErrName},
		{"undefined superclass", "class A < Missing {}", interpreter.ErrName},
		{"unknown property", "class A {} A().x;", interpreter.ErrField},
		{"unknown super method", "class A {} class B < A { m() { super.m(); } } B().m();", interpreter.ErrField},
		{"add mismatch", `1 + "a";`, interpreter.ErrType},
		{"negate string", `-"a";`, interpreter.ErrType},
		{"call number", "1();", interpreter.ErrType},
		{"property of number", "var n = 1; n.x;", interpreter.ErrType},
		{"set on number", "var n = 1; n.x = 2;", interpreter.ErrType},
		{"this outside class", "fun f() { return this; } f();", interpreter.ErrType},
		{"super without superclass", "class A { m() { return super.m(); } } A().m();", interpreter.ErrType},
		{"divide by zero", "1 / 0;", interpreter.ErrDivideByZero},
		{"zero over zero", "0 / 0;", interpreter.ErrDivideByZero},
		{"too few arguments", "fun f(a) {} f();", interpreter.ErrArity},
		{"arguments without init", "class A {} A(1);", interpreter.ErrArity},
		{"init arity", "class A { init(a, b) {} } A(1);", interpreter.ErrArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interp, _ := newInterpreter(t, interpreter.Config{})

			err := run(t, interp, tt.src)
			require.ErrorIs(t, err, tt.kind)

			var rtErr *interpreter.RuntimeError
			require.ErrorAs(t, err, &rtErr)
			require.Equal(t, 1, rtErr.Line)
		})
	}
}

func TestInterpret_ErrorStopsProgram(t *testing.T) {
	r := require.New(t)
	interp, output := newInterpreter(t, interpreter.Config{})

	err := run(t, interp, `print "one"; print 1 + nil; print "two";`)
	r.ErrorIs(err, interpreter.ErrType)
	r.Equal("one\n", output.String())
}

func TestInterpret_GlobalsPersist(t *testing.T) {
	r := require.New(t)
	interp, output := newInterpreter(t, interpreter.Config{})

	r.NoError(run(t, interp, "var count = 1; fun bump() { count = count + 1; }"))
	r.NoError(run(t, interp, "bump(); bump();"))
	r.NoError(run(t, interp, "print count;"))
	r.Equal("3\n", output.String())

	val, ok := interp.Globals().Get("count")
	r.True(ok)
	r.Equal(interpreter.Number(3), val)
}

func TestInterpret_ErrorKeepsEarlierState(t *testing.T) {
	r := require.New(t)
	interp, output := newInterpreter(t, interpreter.Config{})

	r.Error(run(t, interp, "var a = 1; a = a + missing;"))
	r.NoError(run(t, interp, "print a;"))
	r.Equal("1\n", output.String())
}

func TestInterpret_Permissive(t *testing.T) {
	r := require.New(t)
	interp, output := newInterpreter(t, interpreter.Config{Permissive: true})

	err := run(t, interp, `
print undefinedThing;
ghost = 1;
print ghost;
class A {}
print A().missing;
class B < Missing {}
`)
	r.ErrorIs(err, interpreter.ErrType)
	r.Equal("nil\nnil\nnil\n", output.String())

	// arithmetic errors are never softened
	r.ErrorIs(run(t, interp, "1 / 0;"), interpreter.ErrDivideByZero)
}

func TestInterpret_StackOverflow(t *testing.T) {
	r := require.New(t)
	interp, _ := newInterpreter(t, interpreter.Config{MaxCallDepth: 64})

	err := run(t, interp, "fun loop(n) { return loop(n + 1); } loop(0);")
	r.ErrorIs(err, interpreter.ErrStackOverflow)

	// the depth counter unwinds after the failure
	r.NoError(run(t, interp, "fun down(n) { if (n > 0) return down(n - 1); return n; } print down(60);"))
}

func TestInterpret_DeepRecursionWithinLimit(t *testing.T) {
	r := require.New(t)
	interp, output := newInterpreter(t, interpreter.Config{})

	r.NoError(run(t, interp, "fun sum(n) { if (n == 0) return 0; return n + sum(n - 1); } print sum(500);"))
	r.Equal("125250\n", output.String())
}

func TestEvaluate(t *testing.T) {
	r := require.New(t)
	interp, _ := newInterpreter(t, interpreter.Config{})

	r.NoError(run(t, interp, "var greeting = \"hi\";"))

	stmts, err := parser.ParseString(`greeting + " there";`)
	r.NoError(err)
	r.Len(stmts, 1)

	val, err := interp.Evaluate(stmts[0].(*parser.ExprStmt).Expr)
	r.NoError(err)
	r.Equal(interpreter.String("hi there"), val)
}

func TestInterpret_BareReturnIsNotNil(t *testing.T) {
	r := require.New(t)
	interp, _ := newInterpreter(t, interpreter.Config{})

	r.NoError(run(t, interp, "fun bare() { return; } fun explicit() { return nil; } var a = bare(); var b = explicit();"))

	a, ok := interp.Globals().Get("a")
	r.True(ok)
	r.Equal(interpreter.KindUninitialized, a.Kind())

	b, ok := interp.Globals().Get("b")
	r.True(ok)
	r.Equal(interpreter.KindNil, b.Kind())
}

func TestInterpret_FieldWritesTargetOwnClass(t *testing.T) {
	r := require.New(t)
	interp, output := newInterpreter(t, interpreter.Config{})

	// A superclass method writing this.x lands in the subclass slot, so the
	// subclass's later write replaces it.
	r.NoError(run(t, interp, `
class A {
  setX() { this.x = "from A"; }
  getX() { return this.x; }
}
class B < A {
  init() {
    this.setX();
    this.x = "from B";
  }
}
print B().getX();
`))
	r.Equal("from B\n", output.String())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := interpreter.New(slogt.New(t), interpreter.Config{MaxCallDepth: -1})
	require.Error(t, err)
}

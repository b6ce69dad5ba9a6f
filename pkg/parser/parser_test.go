package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rhino1998/lox/pkg/parser"
	"github.com/rhino1998/lox/pkg/token"
	"github.com/stretchr/testify/require"
)

// tokenComparer ignores positions so expected trees can be written by hand.
var tokenComparer = cmp.Comparer(func(a, b token.Token) bool {
	return a.Kind == b.Kind && a.Lexeme == b.Lexeme
})

func ident(name string) token.Token {
	return token.Token{Kind: token.Identifier, Lexeme: name}
}

func parseOK(t *testing.T, src string) []parser.Stmt {
	t.Helper()

	stmts, err := parser.ParseString(src)
	require.NoError(t, err)
	return stmts
}

func TestParse_Tree(t *testing.T) {
	stmts := parseOK(t, "var a = b = 1; obj.field = nil;")

	expected := []parser.Stmt{
		&parser.VarStmt{
			Name: ident("a"),
			Init: &parser.AssignExpr{
				Name:  ident("b"),
				Value: &parser.LiteralExpr{Value: 1.0},
			},
		},
		&parser.ExprStmt{
			Expr: &parser.SetExpr{
				Object: &parser.VariableExpr{Name: ident("obj")},
				Name:   ident("field"),
				Value:  &parser.LiteralExpr{Value: nil},
			},
		},
	}

	if diff := cmp.Diff(expected, stmts, tokenComparer); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParse_Printed(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "precedence",
			src:  "1 + 2 * 3 - -4 == 5;",
			want: "(; (== (- (+ 1 (* 2 3)) (- 4)) 5))",
		},
		{
			name: "logical",
			src:  "a or b and !c;",
			want: "(; (or a (and b (! c))))",
		},
		{
			name: "grouping",
			src:  `print ("a" + "b") / 2;`,
			want: `(print (/ (group (+ "a" "b")) 2))`,
		},
		{
			name: "calls and properties",
			src:  "a.b(1, 2).c();",
			want: "(; (call (. (call (. a b) 1 2) c)))",
		},
		{
			name: "for desugars into while",
			src:  "for (var i = 0; i < 3; i = i + 1) print i;",
			want: "(block (var i 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))",
		},
		{
			name: "for without clauses",
			src:  "for (;;) print 1;",
			want: "(while true (print 1))",
		},
		{
			name: "if else",
			src:  "if (x) print 1; else { print 2; }",
			want: "(if x (print 1) (block (print 2)))",
		},
		{
			name: "function",
			src:  "fun add(a, b) { return a + b; }",
			want: "(fun add (a b) (return (+ a b)))",
		},
		{
			name: "bare return",
			src:  "fun f() { return; }",
			want: "(fun f () (return))",
		},
		{
			name: "class",
			src:  "class B < A { init(x) { this.x = x; } greet() { return super.greet(); } }",
			want: "(class B < A (method init (x) (; (.= this x x))) (method greet () (return (call (super greet)))))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := parseOK(t, tt.src)
			require.Equal(t, tt.want+"\n", parser.Print(stmts))
		})
	}
}

func TestParse_RecoversPerStatement(t *testing.T) {
	r := require.New(t)

	stmts, err := parser.ParseString("print 1\nvar x = 2; print x;")
	r.Error(err)
	r.Equal("[line 2] Error at 'var': Expect ';' after value.", err.Error())
	r.Equal("(print x)\n", parser.Print(stmts))
}

func TestParse_MultipleErrors(t *testing.T) {
	r := require.New(t)

	stmts, err := parser.ParseString("1 = 2;\nprint 3;\nreturn 1;\nprint 4;")
	r.Error(err)

	var set *parser.ErrorSet
	r.True(errors.As(err, &set))
	r.Equal(2, set.Len())
	r.Equal("[line 1] Error at '=': Invalid assignment target.", set.Errs[0].Error())
	r.Equal("[line 3] Error at 'return': Can't return from top-level code.", set.Errs[1].Error())

	r.Equal("(print 3)\n(print 4)\n", parser.Print(stmts))
}

func TestParse_Incomplete(t *testing.T) {
	for _, src := range []string{"fun f() {", "print 1", "class A {", "if (x"} {
		t.Run(src, func(t *testing.T) {
			_, err := parser.ParseString(src)
			require.ErrorIs(t, err, parser.ErrIncomplete)
			require.Contains(t, err.Error(), "at end")
		})
	}

	_, err := parser.ParseString("print 1 2;")
	require.Error(t, err)
	require.NotErrorIs(t, err, parser.ErrIncomplete)
}

func TestParse_ArgumentLimits(t *testing.T) {
	names := make([]string, 256)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}

	_, err := parser.ParseString(fmt.Sprintf("fun f(%s) {}", strings.Join(names, ", ")))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't have more than 255 parameters.")

	_, err = parser.ParseString(fmt.Sprintf("f(%s);", strings.Join(names, ", ")))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't have more than 255 arguments.")

	_, err = parser.ParseString(fmt.Sprintf("fun f(%s) {}", strings.Join(names[:255], ", ")))
	require.NoError(t, err)
}

func TestParseString_LexicalErrors(t *testing.T) {
	r := require.New(t)

	stmts, err := parser.ParseString("print @;\nprint 1;")
	r.Error(err)
	r.Contains(err.Error(), "[line 1] Error: Unexpected character '@'.")
	r.Contains(err.Error(), "[line 1] Error at ';': Expect expression.")
	r.Equal("(print 1)\n", parser.Print(stmts))
}

func TestParseString_ErrorsInSourceOrder(t *testing.T) {
	r := require.New(t)

	_, err := parser.ParseString("print ;\nvar a = @1;")

	var set *parser.ErrorSet
	r.True(errors.As(err, &set))
	r.Equal(2, set.Len())
	r.Equal("[line 1] Error at ';': Expect expression.", set.Errs[0].Error())
	r.Equal("[line 2] Error: Unexpected character '@'.", set.Errs[1].Error())
}

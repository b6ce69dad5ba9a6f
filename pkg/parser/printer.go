package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders statements as one S-expression per line.
func Print(stmts []Stmt) string {
	var b strings.Builder
	for _, stmt := range stmts {
		writeStmt(&b, stmt)
		b.WriteByte('\n')
	}

	return b.String()
}

// PrintExpr renders a single expression as an S-expression.
func PrintExpr(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

func writeStmt(b *strings.Builder, stmt Stmt) {
	switch stmt := stmt.(type) {
	case *ExprStmt:
		writeParen(b, ";", stmt.Expr)
	case *PrintStmt:
		writeParen(b, "print", stmt.Expr)
	case *VarStmt:
		if stmt.Init == nil {
			fmt.Fprintf(b, "(var %s)", stmt.Name.Lexeme)
		} else {
			fmt.Fprintf(b, "(var %s ", stmt.Name.Lexeme)
			writeExpr(b, stmt.Init)
			b.WriteByte(')')
		}
	case *BlockStmt:
		b.WriteString("(block")
		writeBody(b, stmt.Body)
		b.WriteByte(')')
	case *IfStmt:
		b.WriteString("(if ")
		writeExpr(b, stmt.Condition)
		b.WriteByte(' ')
		writeStmt(b, stmt.Then)
		if stmt.Else != nil {
			b.WriteByte(' ')
			writeStmt(b, stmt.Else)
		}
		b.WriteByte(')')
	case *WhileStmt:
		b.WriteString("(while ")
		writeExpr(b, stmt.Condition)
		b.WriteByte(' ')
		writeStmt(b, stmt.Body)
		b.WriteByte(')')
	case *FunctionStmt:
		writeFunction(b, "fun", stmt)
	case *ReturnStmt:
		if stmt.Value == nil {
			b.WriteString("(return)")
		} else {
			writeParen(b, "return", stmt.Value)
		}
	case *ClassStmt:
		fmt.Fprintf(b, "(class %s", stmt.Name.Lexeme)
		if stmt.Superclass != nil {
			fmt.Fprintf(b, " < %s", stmt.Superclass.Name.Lexeme)
		}
		for _, method := range stmt.Methods {
			b.WriteByte(' ')
			writeFunction(b, "method", method)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "(unknown %T)", stmt)
	}
}

func writeFunction(b *strings.Builder, kind string, fn *FunctionStmt) {
	fmt.Fprintf(b, "(%s %s (", kind, fn.Name.Lexeme)
	for i, param := range fn.Params {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(param.Lexeme)
	}
	b.WriteByte(')')
	writeBody(b, fn.Body)
	b.WriteByte(')')
}

func writeBody(b *strings.Builder, body []Stmt) {
	for _, stmt := range body {
		b.WriteByte(' ')
		writeStmt(b, stmt)
	}
}

func writeExpr(b *strings.Builder, expr Expr) {
	switch expr := expr.(type) {
	case *LiteralExpr:
		switch v := expr.Value.(type) {
		case nil:
			b.WriteString("nil")
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		case string:
			b.WriteString(strconv.Quote(v))
		default:
			fmt.Fprint(b, v)
		}
	case *VariableExpr:
		b.WriteString(expr.Name.Lexeme)
	case *AssignExpr:
		fmt.Fprintf(b, "(= %s ", expr.Name.Lexeme)
		writeExpr(b, expr.Value)
		b.WriteByte(')')
	case *LogicalExpr:
		writeParen(b, expr.Operator.Lexeme, expr.Left, expr.Right)
	case *BinaryExpr:
		writeParen(b, expr.Operator.Lexeme, expr.Left, expr.Right)
	case *UnaryExpr:
		writeParen(b, expr.Operator.Lexeme, expr.Right)
	case *CallExpr:
		writeParen(b, "call", append([]Expr{expr.Callee}, expr.Args...)...)
	case *GetExpr:
		b.WriteString("(. ")
		writeExpr(b, expr.Object)
		fmt.Fprintf(b, " %s)", expr.Name.Lexeme)
	case *SetExpr:
		b.WriteString("(.= ")
		writeExpr(b, expr.Object)
		fmt.Fprintf(b, " %s ", expr.Name.Lexeme)
		writeExpr(b, expr.Value)
		b.WriteByte(')')
	case *ThisExpr:
		b.WriteString("this")
	case *SuperExpr:
		fmt.Fprintf(b, "(super %s)", expr.Method.Lexeme)
	case *GroupingExpr:
		writeParen(b, "group", expr.Expr)
	default:
		fmt.Fprintf(b, "(unknown %T)", expr)
	}
}

func writeParen(b *strings.Builder, name string, exprs ...Expr) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteByte(' ')
		writeExpr(b, expr)
	}
	b.WriteByte(')')
}

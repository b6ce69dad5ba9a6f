package parser

import "github.com/rhino1998/lox/pkg/token"

type Stmt interface {
	statement()
}

type ExprStmt struct {
	Expr Expr
}

func (ExprStmt) statement() {}

type PrintStmt struct {
	Keyword token.Token
	Expr    Expr
}

func (PrintStmt) statement() {}

type VarStmt struct {
	Name token.Token
	Init Expr // nil when absent
}

func (VarStmt) statement() {}

type BlockStmt struct {
	Body []Stmt
}

func (BlockStmt) statement() {}

type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

func (IfStmt) statement() {}

// WhileStmt is also the target of for-loop desugaring.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (WhileStmt) statement() {}

type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (FunctionStmt) statement() {}

type ReturnStmt struct {
	Keyword token.Token
	Value   Expr // nil for a bare return
}

func (ReturnStmt) statement() {}

type ClassStmt struct {
	Name       token.Token
	Superclass *VariableExpr // nil when absent
	Methods    []*FunctionStmt
}

func (ClassStmt) statement() {}

type Expr interface {
	expr()
}

// LiteralExpr holds a float64, string, bool or nil.
type LiteralExpr struct {
	Value any
}

func (LiteralExpr) expr() {}

type VariableExpr struct {
	Name token.Token
}

func (VariableExpr) expr() {}

type AssignExpr struct {
	Name  token.Token
	Value Expr
}

func (AssignExpr) expr() {}

type LogicalExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (LogicalExpr) expr() {}

type BinaryExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (BinaryExpr) expr() {}

type UnaryExpr struct {
	Operator token.Token
	Right    Expr
}

func (UnaryExpr) expr() {}

type CallExpr struct {
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

func (CallExpr) expr() {}

type GetExpr struct {
	Object Expr
	Name   token.Token
}

func (GetExpr) expr() {}

type SetExpr struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (SetExpr) expr() {}

type ThisExpr struct {
	Keyword token.Token
}

func (ThisExpr) expr() {}

type SuperExpr struct {
	Keyword token.Token
	Method  token.Token
}

func (SuperExpr) expr() {}

type GroupingExpr struct {
	Expr Expr
}

func (GroupingExpr) expr() {}

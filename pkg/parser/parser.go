package parser

import (
	"errors"
	"fmt"

	"github.com/rhino1998/lox/pkg/lexer"
	"github.com/rhino1998/lox/pkg/token"
)

const maxArgs = 255

// ErrIncomplete is wrapped by every error raised because the input ended
// early. Interactive callers use it to ask for another line.
var ErrIncomplete = errors.New("incomplete input")

type PositionError = lexer.PositionError

type ErrorSet = lexer.ErrorSet

type Parser struct {
	tokens  []token.Token
	current int

	functionDepth int
}

func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.Token{Kind: token.EOF, Line: line})
	}

	return &Parser{tokens: tokens}
}

// Parse parses a whole program. Statements that fail to parse are reported
// in the returned *ErrorSet and skipped; the remaining statements are
// returned either way.
func Parse(tokens []token.Token) ([]Stmt, error) {
	return New(tokens).Parse()
}

// ParseString lexes and parses src, collecting lexical and syntax errors
// into a single set.
func ParseString(src string) ([]Stmt, error) {
	errs := lexer.NewErrorSet()

	tokens, err := lexer.Scan(src)
	if err != nil {
		errs.Add(err)
	}

	stmts, err := Parse(tokens)
	return stmts, errs.Defer(err)
}

func (p *Parser) Parse() ([]Stmt, error) {
	errs := lexer.NewErrorSet()

	var stmts []Stmt
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			errs.Add(err)
			p.synchronize()
			continue
		}

		stmts = append(stmts, stmt)
	}

	return stmts, errs.Defer(nil)
}

func (p *Parser) declaration() (Stmt, error) {
	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() (Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *VariableExpr
	if p.match(token.Less) {
		superName, err := p.consume(token.Identifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}

		superclass = &VariableExpr{Name: superName}
	}

	_, err = p.consume(token.LeftBrace, "Expect '{' before class body.")
	if err != nil {
		return nil, err
	}

	var methods []*FunctionStmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}

		methods = append(methods, method)
	}

	_, err = p.consume(token.RightBrace, "Expect '}' after class body.")
	if err != nil {
		return nil, err
	}

	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

func (p *Parser) function(kind string) (*FunctionStmt, error) {
	name, err := p.consume(token.Identifier, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return nil, err
	}

	_, err = p.consume(token.LeftParen, fmt.Sprintf("Expect '(' after %s name.", kind))
	if err != nil {
		return nil, err
	}

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				return nil, p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}

			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	_, err = p.consume(token.RightParen, "Expect ')' after parameters.")
	if err != nil {
		return nil, err
	}

	_, err = p.consume(token.LeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind))
	if err != nil {
		return nil, err
	}

	p.functionDepth++
	body, err := p.block()
	p.functionDepth--
	if err != nil {
		return nil, err
	}

	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var init Expr
	if p.match(token.Equal) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	if err != nil {
		return nil, err
	}

	return &VarStmt{Name: name, Init: init}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.LeftBrace):
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Body: body}, nil
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (Stmt, error) {
	keyword := p.previous()

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after value.")
	if err != nil {
		return nil, err
	}

	return &PrintStmt{Keyword: keyword, Expr: expr}, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after expression.")
	if err != nil {
		return nil, err
	}

	return &ExprStmt{Expr: expr}, nil
}

// block parses declarations up to and including the closing brace. The
// opening brace has already been consumed.
func (p *Parser) block() ([]Stmt, error) {
	stmts := []Stmt{}
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	_, err := p.consume(token.RightBrace, "Expect '}' after block.")
	if err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	_, err := p.consume(token.LeftParen, "Expect '(' after 'if'.")
	if err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(token.RightParen, "Expect ')' after if condition.")
	if err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var els Stmt
	if p.match(token.Else) {
		els, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	return &IfStmt{Condition: cond, Then: then, Else: els}, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	_, err := p.consume(token.LeftParen, "Expect '(' after 'while'.")
	if err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(token.RightParen, "Expect ')' after condition.")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Condition: cond, Body: body}, nil
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
func (p *Parser) forStatement() (Stmt, error) {
	_, err := p.consume(token.LeftParen, "Expect '(' after 'for'.")
	if err != nil {
		return nil, err
	}

	var init Stmt
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !p.check(token.Semicolon) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after loop condition.")
	if err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(token.RightParen) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	_, err = p.consume(token.RightParen, "Expect ')' after for clauses.")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &BlockStmt{Body: []Stmt{body, &ExprStmt{Expr: incr}}}
	}

	if cond == nil {
		cond = &LiteralExpr{Value: true}
	}

	body = &WhileStmt{Condition: cond, Body: body}

	if init != nil {
		body = &BlockStmt{Body: []Stmt{init, body}}
	}

	return body, nil
}

func (p *Parser) returnStatement() (Stmt, error) {
	keyword := p.previous()
	if p.functionDepth == 0 {
		return nil, p.errorAt(keyword, "Can't return from top-level code.")
	}

	var value Expr
	if !p.check(token.Semicolon) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	_, err := p.consume(token.Semicolon, "Expect ';' after return value.")
	if err != nil {
		return nil, err
	}

	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(token.Equal) {
		equals := p.previous()

		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: target.Name, Value: value}, nil
		case *GetExpr:
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}, nil
		default:
			return nil, p.errorAt(equals, "Invalid assignment target.")
		}
	}

	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	return p.logical(p.and, token.Or)
}

func (p *Parser) and() (Expr, error) {
	return p.logical(p.equality, token.And)
}

func (p *Parser) logical(operand func() (Expr, error), op token.Kind) (Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(op) {
		operator := p.previous()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}

	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (Expr, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (Expr, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (Expr, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

func (p *Parser) binary(operand func() (Expr, error), ops ...token.Kind) (Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(ops...) {
		operator := p.previous()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}

	return expr, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()

		right, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Operator: operator, Right: right}, nil
	}

	return p.call()
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}

			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				return nil, p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}

			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}

	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(token.False):
		return &LiteralExpr{Value: false}, nil
	case p.match(token.True):
		return &LiteralExpr{Value: true}, nil
	case p.match(token.Nil):
		return &LiteralExpr{Value: nil}, nil
	case p.match(token.Number, token.String):
		return &LiteralExpr{Value: p.previous().Literal}, nil
	case p.match(token.This):
		return &ThisExpr{Keyword: p.previous()}, nil
	case p.match(token.Super):
		keyword := p.previous()

		_, err := p.consume(token.Dot, "Expect '.' after 'super'.")
		if err != nil {
			return nil, err
		}

		method, err := p.consume(token.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}

		return &SuperExpr{Keyword: keyword, Method: method}, nil
	case p.match(token.Identifier):
		return &VariableExpr{Name: p.previous()}, nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		_, err = p.consume(token.RightParen, "Expect ')' after expression.")
		if err != nil {
			return nil, err
		}

		return &GroupingExpr{Expr: expr}, nil
	default:
		return nil, p.errorAt(p.peek(), "Expect expression.")
	}
}

// synchronize discards tokens until the start of the next statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}

		p.advance()
	}
}

func (p *Parser) consume(kind token.Kind, msg string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}

	return token.Token{}, p.errorAt(p.peek(), msg)
}

func (p *Parser) errorAt(tok token.Token, msg string) error {
	if tok.Kind == token.EOF {
		return PositionError{Line: tok.Line, Col: tok.Col, Where: " at end", Msg: msg, Err: ErrIncomplete}
	}

	return PositionError{Line: tok.Line, Col: tok.Col, Where: fmt.Sprintf(" at '%s'", tok.Lexeme), Msg: msg}
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}

	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.atEnd() {
		return kind == token.EOF
	}

	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}

	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}

	return p.tokens[p.current-1]
}

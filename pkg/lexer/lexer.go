package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/rhino1998/lox/pkg/token"
)

// ErrUnterminated marks errors caused by input ending inside a construct.
var ErrUnterminated = errors.New("unterminated input")

type Lexer struct {
	src []byte

	start int
	pos   int

	line      int
	col       int
	startLine int
	startCol  int

	tokens []token.Token
	errs   *ErrorSet
}

func New(src string) *Lexer {
	return &Lexer{
		src:  []byte(src),
		line: 1,
		col:  1,
		errs: NewErrorSet(),
	}
}

// Scan tokenizes src. The returned slice always ends with an EOF token, even
// when errors are reported.
func Scan(src string) ([]token.Token, error) {
	return New(src).Scan()
}

func (l *Lexer) Scan() ([]token.Token, error) {
	for !l.atEnd() {
		l.start = l.pos
		l.startLine = l.line
		l.startCol = l.col
		l.scanToken()
	}

	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Line: l.line, Col: l.col})

	return l.tokens, l.errs.Defer(nil)
}

func (l *Lexer) scanToken() {
	r := l.advance()
	switch r {
	case '(':
		l.emit(token.LeftParen)
	case ')':
		l.emit(token.RightParen)
	case '{':
		l.emit(token.LeftBrace)
	case '}':
		l.emit(token.RightBrace)
	case ',':
		l.emit(token.Comma)
	case '.':
		l.emit(token.Dot)
	case '-':
		l.emit(token.Minus)
	case '+':
		l.emit(token.Plus)
	case ';':
		l.emit(token.Semicolon)
	case '*':
		l.emit(token.Star)
	case '!':
		l.emitEither('=', token.BangEqual, token.Bang)
	case '=':
		l.emitEither('=', token.EqualEqual, token.Equal)
	case '<':
		l.emitEither('=', token.LessEqual, token.Less)
	case '>':
		l.emitEither('=', token.GreaterEqual, token.Greater)
	case '/':
		if l.match('/') {
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		} else {
			l.emit(token.Slash)
		}
	case ' ', '\r', '\t', '\n':
	case '"':
		l.string()
	default:
		switch {
		case isDigit(r):
			l.number()
		case isAlpha(r):
			l.identifier()
		default:
			l.errorf(nil, "Unexpected character '%c'.", r)
		}
	}
}

func (l *Lexer) string() {
	for !l.atEnd() && l.peek() != '"' {
		l.advance()
	}

	if l.atEnd() {
		l.errorf(ErrUnterminated, "Unterminated string.")
		return
	}

	l.advance()

	text := string(l.src[l.start+1 : l.pos-1])
	l.emitLiteral(token.String, text)
}

func (l *Lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := string(l.src[l.start:l.pos])
	val, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.errorf(err, "Invalid number %q.", lexeme)
		return
	}

	l.emitLiteral(token.Number, val)
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	l.emit(token.Lookup(string(l.src[l.start:l.pos])))
}

func (l *Lexer) emit(kind token.Kind) {
	l.emitLiteral(kind, nil)
}

func (l *Lexer) emitEither(next rune, ifMatch, otherwise token.Kind) {
	if l.match(next) {
		l.emit(ifMatch)
	} else {
		l.emit(otherwise)
	}
}

func (l *Lexer) emitLiteral(kind token.Kind, literal any) {
	l.tokens = append(l.tokens, token.Token{
		Kind:    kind,
		Lexeme:  string(l.src[l.start:l.pos]),
		Literal: literal,
		Line:    l.startLine,
		Col:     l.startCol,
	})
}

func (l *Lexer) errorf(err error, format string, args ...any) {
	l.errs.Add(PositionError{
		Line: l.startLine,
		Col:  l.startCol,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	})
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRune(l.src[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.atEnd() || l.peek() != expected {
		return false
	}

	l.advance()
	return true
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.src[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.atEnd() {
		return 0
	}

	_, size := utf8.DecodeRune(l.src[l.pos:])
	if l.pos+size >= len(l.src) {
		return 0
	}

	r, _ := utf8.DecodeRune(l.src[l.pos+size:])
	return r
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

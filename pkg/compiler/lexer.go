package compiler

import (
	"fmt"
	"unicode"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"print": PRINT,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) lexIdentifier() Token {
	start := l.pos
	line := l.line
	for l.pos < len(l.src) && (unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}
	text := string(l.src[start:l.pos])
	if kw, ok := keywords[text]; ok {
		return Token{Type: kw, Value: text, Line: line}
	}
	return Token{Type: IDENTIFIER, Value: text, Line: line}
}

func (l *Lexer) lexNumber() Token {
	start := l.pos
	line := l.line
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	return Token{Type: INTEGER, Value: string(l.src[start:l.pos]), Line: line}
}

// Lex scans src into a flat token slice terminated by an EOF token.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token

	for l.pos < len(l.src) {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			break
		}

		r := l.peek()
		switch {
		case unicode.IsLetter(r) || r == '_':
			tokens = append(tokens, l.lexIdentifier())
		case unicode.IsDigit(r):
			tokens = append(tokens, l.lexNumber())
		case r == '=':
			tokens = append(tokens, Token{Type: ASSIGN, Value: "=", Line: l.line})
			l.advance()
		case r == '+':
			tokens = append(tokens, Token{Type: PLUS, Value: "+", Line: l.line})
			l.advance()
		case r == ';':
			tokens = append(tokens, Token{Type: SEMICOLON, Value: ";", Line: l.line})
			l.advance()
		default:
			return nil, fmt.Errorf("line %d: unexpected character %q", l.line, r)
		}
	}

	tokens = append(tokens, Token{Type: EOF, Line: l.line})
	return tokens, nil
}

package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	IDENTIFIER // variable name
	INTEGER    // decimal integer literal

	PRINT // "print"

	ASSIGN    // =
	PLUS      // +
	SEMICOLON // ;
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case IDENTIFIER:
		return "IDENTIFIER"
	case INTEGER:
		return "INTEGER"
	case PRINT:
		return "print"
	case ASSIGN:
		return "="
	case PLUS:
		return "+"
	case SEMICOLON:
		return ";"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is one lexed unit of toy-language source.
type Token struct {
	Type  TokenType
	Value string // raw text for IDENTIFIER and INTEGER
	Line  int    // 1-based source line
}

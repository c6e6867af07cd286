package compiler

import (
	"fmt"
	"strconv"
)

// Parser consumes the flat token slice produced by the Lexer and builds a
// statement list.
//
// Grammar:
//
//	program   = (statement ";")* EOF
//	statement = "print" IDENTIFIER
//	          | IDENTIFIER "=" rhs
//	rhs       = INTEGER
//	          | IDENTIFIER ("+" IDENTIFIER)?
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// next consumes and returns the current token.
func (p *Parser) next() Token {
	tok := p.peek()
	p.pos++
	return tok
}

// expect consumes the current token if it has type tt, failing otherwise.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, fmt.Errorf("line %d: expected %s, got %s %q", tok.Line, tt, tok.Type, tok.Value)
	}
	return p.next(), nil
}

// Parse builds the statement list for a whole program.
func Parse(tokens []Token) ([]Stmt, error) {
	p := NewParser(tokens)
	var stmts []Stmt

	for p.peek().Type != EOF {
		// Tolerate empty statements such as a trailing ";".
		if p.peek().Type == SEMICOLON {
			p.next()
			continue
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Type {
	case PRINT:
		p.next()
		name, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		return &PrintStmt{Var: name.Value, Line: tok.Line}, nil

	case IDENTIFIER:
		return p.parseAssignment()

	default:
		return nil, fmt.Errorf("line %d: expected statement, got %s %q", tok.Line, tok.Type, tok.Value)
	}
}

func (p *Parser) parseAssignment() (Stmt, error) {
	name := p.next()
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}

	rhs := p.next()
	switch rhs.Type {
	case INTEGER:
		value, err := strconv.Atoi(rhs.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid integer literal %q", rhs.Line, rhs.Value)
		}
		return &AssignConst{Name: name.Value, Value: value, Line: name.Line}, nil

	case IDENTIFIER:
		if p.peek().Type != PLUS {
			return &AssignCopy{Name: name.Value, Source: rhs.Value, Line: name.Line}, nil
		}
		p.next() // +
		right, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		return &AssignAdd{Name: name.Value, Left: rhs.Value, Right: right.Value, Line: name.Line}, nil

	default:
		return nil, fmt.Errorf("line %d: expected integer or variable after '=', got %s %q", rhs.Line, rhs.Type, rhs.Value)
	}
}

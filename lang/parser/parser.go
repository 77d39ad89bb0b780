// Package parser implements the recursive-descent, precedence-climbing
// parser for boxlang: it turns a token stream from lang/scanner into
// lang/ast statements, one top-level statement at a time.
package parser

import (
	"github.com/tiagotmartinez/boxlang/lang/ast"
	"github.com/tiagotmartinez/boxlang/lang/langerr"
	"github.com/tiagotmartinez/boxlang/lang/scanner"
	"github.com/tiagotmartinez/boxlang/lang/token"
)

// Parser reads all Tokens from a Scanner up front and exposes a Next method
// that returns one top-level statement Ast at a time.
type Parser struct {
	toks []token.Token
	pos  int
}

// New scans source to completion and returns a Parser ready to produce
// statements, or the first lexing error.
func New(source string) (*Parser, error) {
	toks, err := scanner.New(source).All()
	if err != nil {
		return nil, err
	}
	return &Parser{toks: toks}, nil
}

// IsEmpty reports whether there are no more statements to parse.
func (p *Parser) IsEmpty() bool { return p.pos >= len(p.toks) }

func (p *Parser) current() (token.Token, error) {
	if p.IsEmpty() {
		return token.Token{}, langerr.NewUnexpectedEOF(p.eofOffset())
	}
	return p.toks[p.pos], nil
}

func (p *Parser) eofOffset() int {
	if len(p.toks) == 0 {
		return 0
	}
	return p.toks[len(p.toks)-1].Span.End
}

func (p *Parser) pop() (token.Token, error) {
	tok, err := p.current()
	if err != nil {
		return tok, err
	}
	p.pos++
	return tok, nil
}

// expect requires the current token to be one of kinds, consuming and
// returning it; otherwise it returns an UnexpectedToken error.
func (p *Parser) expect(kinds ...token.Kind) (token.Token, error) {
	tok, err := p.current()
	if err != nil {
		return tok, err
	}
	if oneOfKind(tok.Kind, kinds) {
		return p.pop()
	}
	return token.Token{}, langerr.NewUnexpectedToken(tok, kinds)
}

// check consumes and returns the current token if it is one of kinds,
// returning ok == false (without consuming) otherwise.
func (p *Parser) check(kinds ...token.Kind) (token.Token, bool) {
	if !p.oneOf(kinds) {
		return token.Token{}, false
	}
	tok, _ := p.pop()
	return tok, true
}

func (p *Parser) oneOf(kinds []token.Kind) bool {
	return !p.IsEmpty() && oneOfKind(p.toks[p.pos].Kind, kinds)
}

func oneOfKind(k token.Kind, kinds []token.Kind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Next parses and returns the next top-level statement, or nil at end of
// input.
func (p *Parser) Next() (ast.Stmt, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	return p.statement()
}

// All parses every remaining top-level statement.
func (p *Parser) All() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		s, err := p.Next()
		if err != nil {
			return nil, err
		}
		if s == nil {
			return stmts, nil
		}
		stmts = append(stmts, s)
	}
}

package parser

import (
	"github.com/tiagotmartinez/boxlang/lang/ast"
	"github.com/tiagotmartinez/boxlang/lang/langerr"
	"github.com/tiagotmartinez/boxlang/lang/token"
)

// whileLoop parses `while <expr> <block>`.
func (p *Parser) whileLoop() (ast.Stmt, error) {
	tok, err := p.expect(token.WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Loop{Tok: tok, Cond: cond, Body: body}, nil
}

// blockOrIf parses the `else` arm of an if/else: either a block or another
// if/else.
func (p *Parser) blockOrIf() (ast.Stmt, error) {
	if p.oneOf([]token.Kind{token.IF}) {
		return p.ifElse()
	}
	if p.oneOf([]token.Kind{token.LBRACE}) {
		return p.block()
	}
	tok, err := p.pop()
	if err != nil {
		return nil, err
	}
	return nil, langerr.NewUnexpectedToken(tok, []token.Kind{token.IF, token.LBRACE})
}

// ifElse parses `if <expr> <block> [else (<block>|<if>)]`.
func (p *Parser) ifElse() (ast.Stmt, error) {
	tok, err := p.expect(token.IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if _, ok := p.check(token.ELSE); ok {
		elseStmt, err = p.blockOrIf()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfElse{Tok: tok, Cond: cond, Then: then, Else: elseStmt}, nil
}

// block parses a brace-delimited sequence of statements.
func (p *Parser) block() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for {
		if rbrace, ok := p.check(token.RBRACE); ok {
			return &ast.Block{LBrace: lbrace, RBrace: rbrace, Stmts: stmts}, nil
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
}

// statement parses a single statement: a while loop, an if/else, a bare
// block, or `<expr>;` wrapped to discard its result.
func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.oneOf([]token.Kind{token.WHILE}):
		return p.whileLoop()
	case p.oneOf([]token.Kind{token.IF}):
		return p.ifElse()
	case p.oneOf([]token.Kind{token.LBRACE}):
		return p.block()
	default:
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{X: e}, nil
	}
}

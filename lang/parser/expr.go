package parser

import (
	"strconv"

	"github.com/tiagotmartinez/boxlang/lang/ast"
	"github.com/tiagotmartinez/boxlang/lang/langerr"
	"github.com/tiagotmartinez/boxlang/lang/token"
)

// leftAssoc implements the generic left-associative binary operator
// production: previous { op previous }*.
func (p *Parser) leftAssoc(ops []token.Kind, previous func() (ast.Expr, error)) (ast.Expr, error) {
	lhs, err := previous()
	if err != nil {
		return nil, err
	}
	for p.oneOf(ops) {
		op, _ := p.pop()
		rhs, err := previous()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

// atom parses Int | Str | Ident | '(' Expression ')' | '[' list ']'.
func (p *Parser) atom() (ast.Expr, error) {
	tok, err := p.pop()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.INT:
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, langerr.NewParseError(tok)
		}
		return &ast.IntLit{Value: n, Tok: tok}, nil

	case token.STR:
		return &ast.StrLit{Value: tok.Lexeme, Tok: tok}, nil

	case token.IDENT:
		return &ast.VarExpr{Name: tok.Lexeme, Tok: tok}, nil

	case token.LPAREN:
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil

	case token.LBRACK:
		elems, err := p.listOf(p.expression, token.COMMA, token.RBRACK)
		if err != nil {
			return nil, err
		}
		return &ast.ListLit{Elems: elems, Tok: tok}, nil

	default:
		return nil, langerr.NewUnexpectedToken(tok, []token.Kind{token.INT, token.STR, token.IDENT, token.LPAREN, token.LBRACK})
	}
}

// callOrIndex parses atom { '(' args ')' | '[' index ']' }*.
func (p *Parser) callOrIndex() (ast.Expr, error) {
	lhs, err := p.atom()
	if err != nil {
		return nil, err
	}
	for p.oneOf([]token.Kind{token.LBRACK, token.LPAREN}) {
		tok, _ := p.pop()
		switch tok.Kind {
		case token.LBRACK:
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			lhs = &ast.Index{Tok: tok, Target: lhs, Idx: idx}

		case token.LPAREN:
			args, err := p.listOf(p.expression, token.COMMA, token.RPAREN)
			if err != nil {
				return nil, err
			}
			lhs = &ast.Call{Tok: tok, Callee: lhs, Args: args}
		}
	}
	return lhs, nil
}

// assign parses callOrIndex [ '=' Expression ]; assignment is right
// associative (it re-enters the full expression grammar on the RHS).
func (p *Parser) assign() (ast.Expr, error) {
	lhs, err := p.callOrIndex()
	if err != nil {
		return nil, err
	}
	if !p.oneOf([]token.Kind{token.ASSIGN}) {
		return lhs, nil
	}
	op, _ := p.pop()
	rhs, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Op: op, LHS: lhs, RHS: rhs}, nil
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.leftAssoc([]token.Kind{token.MUL, token.DIV, token.MOD}, p.assign)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.leftAssoc([]token.Kind{token.ADD, token.SUB}, p.factor)
}

func (p *Parser) cmp() (ast.Expr, error) {
	return p.leftAssoc([]token.Kind{token.LT, token.LTE, token.GT, token.GTE, token.EQ, token.NOTEQ}, p.term)
}

// expression always leaves exactly one value on the stack when compiled.
func (p *Parser) expression() (ast.Expr, error) {
	return p.cmp()
}

// listOf parses a separator-delimited, terminator-closed list of items
// produced by previous, allowing a trailing separator before terminator.
func (p *Parser) listOf(previous func() (ast.Expr, error), separator, terminator token.Kind) ([]ast.Expr, error) {
	var items []ast.Expr
	for {
		if _, ok := p.check(terminator); ok {
			return items, nil
		}
		item, err := previous()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		tok, err := p.expect(separator, terminator)
		if err != nil {
			return nil, err
		}
		if tok.Kind == terminator {
			return items, nil
		}
	}
}

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tiagotmartinez/boxlang/lang/ast"
	"github.com/tiagotmartinez/boxlang/lang/parser"
)

func parseAll(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	p, err := parser.New(src)
	require.NoError(t, err)
	stmts, err := p.All()
	require.NoError(t, err)
	return stmts
}

func TestParseExprStmt(t *testing.T) {
	stmts := parseAll(t, `1 + 2 * 3;`)
	require.Len(t, stmts, 1)
	es, ok := stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	bin, ok := es.X.(*ast.BinOp)
	require.True(t, ok)
	_, ok = bin.LHS.(*ast.IntLit)
	require.True(t, ok)
	rhs, ok := bin.RHS.(*ast.BinOp)
	require.True(t, ok, "multiplicative binds tighter than additive")
	require.Equal(t, int64(2), rhs.LHS.(*ast.IntLit).Value)
}

func TestParseAssignment(t *testing.T) {
	stmts := parseAll(t, `x = 1;`)
	es := stmts[0].(*ast.ExprStmt)
	bin := es.X.(*ast.BinOp)
	_, ok := bin.LHS.(*ast.VarExpr)
	require.True(t, ok)
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	stmts := parseAll(t, `x = y = 1;`)
	es := stmts[0].(*ast.ExprStmt)
	outer := es.X.(*ast.BinOp)
	require.Equal(t, "x", outer.LHS.(*ast.VarExpr).Name)
	inner, ok := outer.RHS.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, "y", inner.LHS.(*ast.VarExpr).Name)
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	p, err := parser.New(`1 = 2;`)
	require.NoError(t, err)
	_, err = p.All()
	// the parser accepts any expression as an assignment LHS; rejecting
	// invalid targets is the compiler's job (see compiler.TestInvalidAssignmentTarget)
	require.NoError(t, err)
}

func TestParseWhileLoop(t *testing.T) {
	stmts := parseAll(t, `while x < 5 { x = x + 1; }`)
	loop, ok := stmts[0].(*ast.Loop)
	require.True(t, ok)
	require.Nil(t, loop.Init)
	require.Nil(t, loop.Update)
	require.NotNil(t, loop.Cond)
	require.Len(t, loop.Body.(*ast.Block).Stmts, 1)
}

func TestParseIfElse(t *testing.T) {
	stmts := parseAll(t, `if 0 { print("no"); } else { print("yes"); }`)
	ifelse, ok := stmts[0].(*ast.IfElse)
	require.True(t, ok)
	require.NotNil(t, ifelse.Else)
}

func TestParseIfElseIf(t *testing.T) {
	stmts := parseAll(t, `if 0 { } else if 1 { } else { }`)
	ifelse := stmts[0].(*ast.IfElse)
	elseIf, ok := ifelse.Else.(*ast.IfElse)
	require.True(t, ok)
	require.NotNil(t, elseIf.Else)
}

func TestParseListLiteralTrailingComma(t *testing.T) {
	stmts := parseAll(t, `[1, 2, 3,];`)
	lst := stmts[0].(*ast.ExprStmt).X.(*ast.ListLit)
	require.Len(t, lst.Elems, 3)
}

func TestParseEmptyList(t *testing.T) {
	stmts := parseAll(t, `[];`)
	lst := stmts[0].(*ast.ExprStmt).X.(*ast.ListLit)
	require.Empty(t, lst.Elems)
}

func TestParseCallAndIndexChain(t *testing.T) {
	stmts := parseAll(t, `xs[0](1, 2);`)
	call := stmts[0].(*ast.ExprStmt).X.(*ast.Call)
	require.Len(t, call.Args, 2)
	_, ok := call.Callee.(*ast.Index)
	require.True(t, ok)
}

func TestParseUnexpectedTokenError(t *testing.T) {
	p, err := parser.New(`1 +;`)
	require.NoError(t, err)
	_, err = p.All()
	require.Error(t, err)
}

func TestParseUnexpectedEOF(t *testing.T) {
	p, err := parser.New(`1 + `)
	require.NoError(t, err)
	_, err = p.All()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected end of source")
}

func TestParseMissingSemicolon(t *testing.T) {
	p, err := parser.New(`1 + 2`)
	require.NoError(t, err)
	_, err = p.All()
	require.Error(t, err)
}

func TestParseBareBlock(t *testing.T) {
	stmts := parseAll(t, `{ 1; 2; }`)
	blk, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, blk.Stmts, 2)
}

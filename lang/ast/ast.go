// Package ast defines the abstract syntax tree produced by lang/parser and
// consumed by lang/compiler. Every node can report its source Span and
// accepts a Visitor for tree traversal (see Walk).
package ast

import (
	"fmt"

	"github.com/tiagotmartinez/boxlang/lang/token"
)

// Node is any node in the AST.
type Node interface {
	// Span reports the byte-range this node occupies in the source.
	Span() token.Span

	// Walk visits this node's direct children with v, implementing the
	// Visitor pattern together with the package-level Walk function.
	Walk(v Visitor)

	// Pretty returns a short one-line human-readable description of the node,
	// used in error messages and the `parse` CLI command's tree dump.
	Pretty() string
}

// Expr is any expression node; every expression leaves exactly one value on
// the operand stack when compiled.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement node; statements leave nothing on the operand stack
// when compiled.
type Stmt interface {
	Node
	stmtNode()
}

type (
	// IntLit is an integer literal.
	IntLit struct {
		Value int64
		Tok   token.Token
	}

	// StrLit is a string literal (already escape-decoded).
	StrLit struct {
		Value string
		Tok   token.Token
	}

	// ListLit is a list literal `[e1, e2, ...]`.
	ListLit struct {
		Elems []Expr
		Tok   token.Token // the '[' token, used for the span of an empty list
	}

	// VarExpr is a reference to a global by name.
	VarExpr struct {
		Name string
		Tok  token.Token
	}

	// BinOp is a binary operator application, including assignment (`=`).
	BinOp struct {
		Op       token.Token
		LHS, RHS Expr
	}

	// Call is a function call `callee(args...)`.
	Call struct {
		Tok    token.Token // the '(' token
		Callee Expr
		Args   []Expr
	}

	// Index is a subscript expression `target[index]`.
	Index struct {
		Tok         token.Token // the '[' token
		Target, Idx Expr
	}

	// Loop covers both `while <cond> <body>` and the reserved-but-unused
	// `for` shape: (keyword, optional init, optional cond, body, optional
	// update). `while` never populates Init/Update.
	Loop struct {
		Tok                token.Token
		Init, Cond, Update Expr // any may be nil
		Body               Stmt
	}

	// IfElse is a conditional; Else may be nil, or itself an *IfElse (an
	// `else if` chain), or any other Stmt (normally a *Block).
	IfElse struct {
		Tok        token.Token
		Cond       Expr
		Then, Else Stmt // Else may be nil
	}

	// Block is a brace-delimited sequence of statements.
	Block struct {
		LBrace, RBrace token.Token
		Stmts          []Stmt
	}

	// ExprStmt wraps an expression used as a statement; the compiler inserts
	// a balancing Pop so statements leave nothing on the stack.
	ExprStmt struct {
		X Expr
	}
)

func (*IntLit) exprNode()  {}
func (*StrLit) exprNode()  {}
func (*ListLit) exprNode() {}
func (*VarExpr) exprNode() {}
func (*BinOp) exprNode()   {}
func (*Call) exprNode()    {}
func (*Index) exprNode()   {}

func (*Loop) stmtNode()     {}
func (*IfElse) stmtNode()   {}
func (*Block) stmtNode()    {}
func (*ExprStmt) stmtNode() {}

func (n *IntLit) Span() token.Span { return n.Tok.Span }
func (n *StrLit) Span() token.Span { return n.Tok.Span }
func (n *ListLit) Span() token.Span {
	if len(n.Elems) == 0 {
		return n.Tok.Span
	}
	return spanOf(n.Elems[0], n.Elems[len(n.Elems)-1])
}
func (n *VarExpr) Span() token.Span { return n.Tok.Span }
func (n *BinOp) Span() token.Span   { return spanOf(n.LHS, n.RHS) }
func (n *Call) Span() token.Span {
	if len(n.Args) == 0 {
		return spanOf(n.Callee, n.Callee)
	}
	return spanOf(n.Callee, n.Args[len(n.Args)-1])
}
func (n *Index) Span() token.Span { return spanOf(n.Target, n.Idx) }
func (n *Loop) Span() token.Span {
	return token.Span{Start: n.Tok.Span.Start, End: n.Body.Span().End}
}
func (n *IfElse) Span() token.Span {
	end := n.Then.Span().End
	if n.Else != nil {
		end = n.Else.Span().End
	}
	return token.Span{Start: n.Tok.Span.Start, End: end}
}
func (n *Block) Span() token.Span {
	return token.Span{Start: n.LBrace.Span.Start, End: n.RBrace.Span.End}
}
func (n *ExprStmt) Span() token.Span { return n.X.Span() }

// spanOf returns the span covering from the start of a to the end of b.
func spanOf(a, b Node) token.Span {
	return token.Span{Start: a.Span().Start, End: b.Span().End}
}

func (n *IntLit) Pretty() string  { return fmt.Sprintf("%d", n.Value) }
func (n *StrLit) Pretty() string  { return fmt.Sprintf("%q", n.Value) }
func (n *ListLit) Pretty() string { return "list literal" }
func (n *VarExpr) Pretty() string { return n.Name }
func (n *BinOp) Pretty() string   { return fmt.Sprintf("binary operator %s", n.Op.Kind) }
func (n *Call) Pretty() string    { return "function call" }
func (n *Index) Pretty() string   { return "indexing" }
func (n *Loop) Pretty() string    { return fmt.Sprintf("%s loop", n.Tok.Kind) }
func (n *IfElse) Pretty() string  { return "conditional" }
func (n *Block) Pretty() string   { return "block" }
func (n *ExprStmt) Pretty() string {
	return "statement"
}

package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer pretty-prints an AST as an indented, one-node-per-line tree,
// mirroring the shape of the `parse` CLI command's output.
type Printer struct {
	Output io.Writer
}

// Print walks n and writes its tree representation to p.Output.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w     io.Writer
	depth int
	err   error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit {
		p.depth--
		return nil
	}
	if p.err != nil {
		return nil
	}
	start, end := n.Span().Start, n.Span().End
	_, p.err = fmt.Fprintf(p.w, "%s[%d:%d] %s\n", strings.Repeat(". ", p.depth), start, end, n.Pretty())
	p.depth++
	return p
}

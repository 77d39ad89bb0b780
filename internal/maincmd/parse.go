package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"
	"github.com/tiagotmartinez/boxlang/lang/ast"
	"github.com/tiagotmartinez/boxlang/lang/parser"
)

// Parse implements the `parse <path>` command: scan and parse the file,
// printing the resulting statements as an indented tree, one line per
// node.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return printError(stdio, "", err)
	}

	p, err := parser.New(string(src))
	if err != nil {
		return printError(stdio, string(src), err)
	}
	stmts, err := p.All()
	if err != nil {
		return printError(stdio, string(src), err)
	}

	printer := ast.Printer{Output: stdio.Stdout}
	for _, s := range stmts {
		if err := printer.Print(s); err != nil {
			return printError(stdio, string(src), err)
		}
	}
	return nil
}

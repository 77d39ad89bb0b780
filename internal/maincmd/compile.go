package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/tiagotmartinez/boxlang/lang/compiler"
	"github.com/tiagotmartinez/boxlang/lang/parser"
)

// Compile implements the `compile <path>` command: run the full front end
// and print the linear opcode listing, one address-prefixed line per Op.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	ops, source, err := compileFile(args[0])
	if err != nil {
		return printError(stdio, source, err)
	}
	printCode(stdio, ops)
	return nil
}

func compileFile(path string) ([]compiler.Op, string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	source := string(src)

	p, err := parser.New(source)
	if err != nil {
		return nil, source, err
	}
	stmts, err := p.All()
	if err != nil {
		return nil, source, err
	}

	comp := compiler.New()
	for _, s := range stmts {
		if _, err := comp.Feed(s); err != nil {
			return nil, source, err
		}
	}
	ops, err := comp.Build()
	return ops, source, err
}

func printCode(stdio mainer.Stdio, ops []compiler.Op) {
	for i, op := range ops {
		fmt.Fprintf(stdio.Stdout, "%4d\t%s\n", i, op)
	}
}

package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/tiagotmartinez/boxlang/lang/scanner"
)

// Tokenize implements the `tokenize <path>` command: scan the file and
// print one line per token, byte-offset span and lexeme included.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return printError(stdio, "", err)
	}

	toks, err := scanner.New(string(src)).All()
	if err != nil {
		return printError(stdio, string(src), err)
	}
	for _, tok := range toks {
		fmt.Fprintf(stdio.Stdout, "[%d:%d] %s\n", tok.Span.Start, tok.Span.End, tok)
	}
	return nil
}

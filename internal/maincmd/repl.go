package maincmd

import (
	"bufio"
	"context"
	"strings"

	"github.com/mna/mainer"
	"github.com/tiagotmartinez/boxlang/internal/boxconfig"
	"github.com/tiagotmartinez/boxlang/lang/ast"
	"github.com/tiagotmartinez/boxlang/lang/compiler"
	"github.com/tiagotmartinez/boxlang/lang/langerr"
	"github.com/tiagotmartinez/boxlang/lang/machine"
	"github.com/tiagotmartinez/boxlang/lang/parser"
)

// Repl implements the `repl` command: read statements from stdin, one
// line at a time, and compile each newly-complete top-level statement with
// its own Compiler, running it on a single VM that persists for the whole
// session, exactly the "VM state survives across runs" behavior the
// language guarantees between successive top-level statements.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := boxconfig.Load(c.ConfigFile)
	if err != nil {
		return printError(stdio, "", err)
	}

	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Grow(cfg.InitialHeapSize)

	sc := bufio.NewScanner(stdio.Stdin)
	var buf strings.Builder
	executed := 0

	for sc.Scan() {
		buf.WriteString(sc.Text())
		buf.WriteByte('\n')
		source := buf.String()

		stmts, err := parseAll(source)
		if err != nil {
			if isIncompleteInput(err) {
				continue // wait for the statement's closing token on a later line
			}
			return printError(stdio, source, err)
		}

		for _, s := range stmts[executed:] {
			if err := feedAndRun(vm, s); err != nil {
				return printError(stdio, source, err)
			}
		}
		executed = len(stmts)
	}
	if err := sc.Err(); err != nil {
		return printError(stdio, "", err)
	}

	if c.GCStats || cfg.GCStats {
		printGCStats(stdio, vm)
	}
	return nil
}

// parseAll scans and parses source from scratch, returning every top-level
// statement found so far.
func parseAll(source string) ([]ast.Stmt, error) {
	p, err := parser.New(source)
	if err != nil {
		return nil, err
	}
	return p.All()
}

// isIncompleteInput reports whether err is the scanner/parser reaching the
// end of the buffered source while still inside an open construct (an
// unterminated string, an unclosed brace), meaning the repl should read
// another line rather than reporting a failure.
func isIncompleteInput(err error) bool {
	lerr, ok := err.(*langerr.Error)
	return ok && lerr.Kind == langerr.UnexpectedEOF
}

// feedAndRun compiles a single statement in its own Compiler (so each
// top-level statement gets its own jump-target numbering) and executes it
// against vm, whose heap, stack and globals persist across calls.
func feedAndRun(vm *machine.VM, s ast.Stmt) error {
	comp := compiler.New()
	if _, err := comp.Feed(s); err != nil {
		return err
	}
	ops, err := comp.Build()
	if err != nil {
		return err
	}
	return vm.Run(ops)
}

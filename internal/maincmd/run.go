package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/tiagotmartinez/boxlang/internal/boxconfig"
	"github.com/tiagotmartinez/boxlang/lang/machine"
)

// Run implements the `run <path>` command: compile and execute a script,
// writing its `print`/`dump_stack` output to stdout. With --gc-stats (or
// a config file setting gc_stats: true), collector counters are printed
// after execution.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := boxconfig.Load(c.ConfigFile)
	if err != nil {
		return printError(stdio, "", err)
	}

	ops, source, err := compileFile(args[0])
	if err != nil {
		return printError(stdio, source, err)
	}

	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Grow(cfg.InitialHeapSize)

	if err := vm.Run(ops); err != nil {
		return printError(stdio, source, err)
	}

	if c.GCStats || cfg.GCStats {
		printGCStats(stdio, vm)
	}
	return nil
}

func printGCStats(stdio mainer.Stdio, vm *machine.VM) {
	stats := vm.Stats()
	fmt.Fprintf(stdio.Stdout, "gc: %d collections, %d reclaimed, heap size %d\n",
		stats.Collections, stats.Reclaimed, stats.HeapSize)
}

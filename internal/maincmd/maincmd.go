package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
	"github.com/tiagotmartinez/boxlang/lang/langerr"
)

const binName = "boxlang"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler, virtual machine and all-in-one tool for the %[1]s scripting
language.

The <command> can be one of:
       tokenize                  Run the scanner and print the resulting
                                 tokens.
       parse                     Run the scanner and parser and print the
                                 resulting abstract syntax tree.
       compile                   Run the full front end and print the
                                 linear opcode listing.
       run                       Compile and execute a script. This is
                                 the default thing you want.
       repl                      Read statements from stdin (or a piped
                                 script) and execute them one at a time
                                 against a persistent VM.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --gc-stats                Print heap size, collection count and
                                 reclaimed-slot count after running.
       --config <file>           Load VM bootstrap tuning from a YAML
                                 file (see internal/boxconfig).
`, binName)
)

// Cmd is the top-level command dispatcher, driven by mna/mainer: exported
// bool/string fields tagged `flag:"..."` are populated from the command
// line, and each exported method with the signature buildCmds looks for
// becomes a dispatchable subcommand named after the method, lowercased.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	GCStats    bool   `flag:"gc-stats"`
	ConfigFile string `flag:"config"`

	args  []string
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	switch cmdName {
	case "tokenize", "parse", "compile", "run":
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: a file path is required", cmdName)
		}
	case "repl":
		if len(c.args[1:]) != 0 {
			return fmt.Errorf("repl: takes no arguments")
		}
	}

	return nil
}

// printError writes err to stdio.Stderr, rendering it with source-position
// caret diagnostics via langerr.Error.Pretty when err carries that
// information, and returns err unchanged so callers can `return
// printError(...)`.
func printError(stdio mainer.Stdio, source string, err error) error {
	if err == nil {
		return nil
	}
	if lerr, ok := err.(*langerr.Error); ok {
		fmt.Fprintf(stdio.Stderr, "%s\n", lerr.Pretty(source))
	} else {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its own errors
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds discovers the commands exposed by v via reflection: any method
// taking (context.Context, mainer.Stdio, []string) and returning a single
// error becomes dispatchable under its lowercased name.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}

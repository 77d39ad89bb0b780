package machine_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tiagotmartinez/boxlang/lang/compiler"
	"github.com/tiagotmartinez/boxlang/lang/machine"
	"github.com/tiagotmartinez/boxlang/lang/parser"
)

// runSource parses, compiles and executes src on a fresh VM, returning
// everything written to stdout.
func runSource(t *testing.T, src string) (string, error) {
	t.Helper()
	p, err := parser.New(src)
	require.NoError(t, err)
	stmts, err := p.All()
	require.NoError(t, err)

	c := compiler.New()
	for _, s := range stmts {
		if _, err := c.Feed(s); err != nil {
			return "", err
		}
	}
	ops, err := c.Build()
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	vm := machine.New()
	vm.Stdout = &out
	err = vm.Run(ops)
	return out.String(), err
}

func TestEndToEndArithmeticPrecedence(t *testing.T) {
	out, err := runSource(t, `print(1 + 2 * 3);`)
	require.NoError(t, err)
	require.Equal(t, "7\n", out)
}

func TestEndToEndWhileLoop(t *testing.T) {
	out, err := runSource(t, `x = 0; while x < 5 { x = x + 1; } print(x);`)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

func TestEndToEndIndexStore(t *testing.T) {
	out, err := runSource(t, `xs = [1, 2, 3]; xs[1] = 99; print(xs);`)
	require.NoError(t, err)
	require.Equal(t, "[1, 99, 3]\n", out)
}

func TestEndToEndStringRepetitionAndLength(t *testing.T) {
	out, err := runSource(t, `s = "ab" * 3; print(s); print(length(s));`)
	require.NoError(t, err)
	require.Equal(t, "ababab\n6\n", out)
}

func TestEndToEndIfElse(t *testing.T) {
	out, err := runSource(t, `if 0 { print("no"); } else { print("yes"); }`)
	require.NoError(t, err)
	require.Equal(t, "yes\n", out)
}

func TestEndToEndAppend(t *testing.T) {
	out, err := runSource(t, `xs = []; append(xs, 1); append(xs, 2); append(xs, 3); print(xs); print(length(xs));`)
	require.NoError(t, err)
	require.Equal(t, "[1, 2, 3]\n3\n", out)
}

func TestErrorIncompatibleOperands(t *testing.T) {
	_, err := runSource(t, `1 + "a";`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "incompatible operands")
	require.Contains(t, err.Error(), "integer")
	require.Contains(t, err.Error(), "string")
}

func TestErrorIndexOutOfRange(t *testing.T) {
	_, err := runSource(t, `xs = [1]; xs[5];`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "index out of range")
	require.Contains(t, err.Error(), "5")
}

func TestErrorGlobalNotFound(t *testing.T) {
	_, err := runSource(t, `y;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "global not found")
	require.Contains(t, err.Error(), "y")
}

func TestErrorInvalidStringEscape(t *testing.T) {
	// The escape is rejected by the scanner, so the error comes from
	// parser.New rather than from running the program.
	_, err := parser.New(`x = "\q";`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid escape")
	require.Contains(t, err.Error(), "q")
}

func TestErrorDivisionByZeroIsArithmeticFault(t *testing.T) {
	_, err := runSource(t, `x = 1 / 0;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "arithmetic fault")
}

func TestPeepholeMoveGPreservesSemantics(t *testing.T) {
	// `x = 1;` compiles StoreG;Pop, collapsed by the peephole pass to
	// MoveG; this should be observably identical to reading x back out.
	out, err := runSource(t, `x = 1; print(x);`)
	require.NoError(t, err)
	require.Equal(t, "1\n", out)
}

func TestToStringLengthMatchesDigitCount(t *testing.T) {
	out, err := runSource(t, `print(length(to_string(12345)));`)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

func TestMakeListPreservesPushOrder(t *testing.T) {
	out, err := runSource(t, `xs = [10, 20, 30]; print(xs[0]); print(xs[1]); print(xs[2]);`)
	require.NoError(t, err)
	require.Equal(t, "10\n20\n30\n", out)
}

func TestDumpStackPopsLabelArgument(t *testing.T) {
	// dump_stack("label") pops its one argument (the label) just like every
	// other native, and returns the stack length as observed before that pop.
	out, err := runSource(t, `dump_stack("label");`)
	require.NoError(t, err)
	require.Contains(t, out, "label")
}

func TestVMStateSurvivesAcrossRuns(t *testing.T) {
	vm := machine.New()
	var out bytes.Buffer
	vm.Stdout = &out

	compileAndRun := func(src string) error {
		p, err := parser.New(src)
		require.NoError(t, err)
		stmts, err := p.All()
		require.NoError(t, err)
		c := compiler.New()
		for _, s := range stmts {
			if _, err := c.Feed(s); err != nil {
				return err
			}
		}
		ops, err := c.Build()
		if err != nil {
			return err
		}
		return vm.Run(ops)
	}

	require.NoError(t, compileAndRun(`x = 41;`))
	require.NoError(t, compileAndRun(`print(x + 1);`))
	require.Equal(t, "42\n", out.String())
}

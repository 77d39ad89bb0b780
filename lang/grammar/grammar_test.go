package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF parses boxlang.ebnf and verifies it is self-consistent: every
// production referenced from Chunk is reachable and defined, with no
// dangling names. It does not check the grammar against lang/parser's
// actual behavior; it only keeps the written-down grammar from silently
// rotting out of a parseable state.
func TestEBNF(t *testing.T) {
	const filename = "boxlang.ebnf"

	f, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse(filename, f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Chunk"); err != nil {
		t.Fatal(err)
	}
}

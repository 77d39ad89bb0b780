package parser_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/tiagotmartinez/boxlang/internal/filetest"
	"github.com/tiagotmartinez/boxlang/lang/ast"
	"github.com/tiagotmartinez/boxlang/lang/parser"
)

// TestGoldenParse feeds every testdata/*.box file through the parser and
// diffs the resulting ast.Printer tree dump against the matching
// testdata/*.box.want file, the same output the `parse` CLI command
// produces.
func TestGoldenParse(t *testing.T) {
	const dir = "testdata"
	update := false

	for _, fi := range filetest.SourceFiles(t, dir, ".box") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}

			p, err := parser.New(string(src))
			if err != nil {
				t.Fatal(err)
			}
			stmts, err := p.All()
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			printer := ast.Printer{Output: &buf}
			for _, s := range stmts {
				if err := printer.Print(s); err != nil {
					t.Fatal(err)
				}
			}

			filetest.DiffOutput(t, fi, buf.String(), dir, &update)
		})
	}
}

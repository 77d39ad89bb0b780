package machine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tiagotmartinez/boxlang/internal/filetest"
)

// TestGoldenRun feeds every testdata/*.box script through the full
// parse/compile/execute pipeline and diffs its stdout against the
// matching testdata/*.box.want file, exercising the same end-to-end path
// the `run` CLI command takes.
func TestGoldenRun(t *testing.T) {
	const dir = "testdata"
	update := false

	for _, fi := range filetest.SourceFiles(t, dir, ".box") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}

			out, err := runSource(t, string(src))
			if err != nil {
				t.Fatal(err)
			}

			filetest.DiffOutput(t, fi, out, dir, &update)
		})
	}
}

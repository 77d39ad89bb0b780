// Package boxconfig loads the optional YAML file that tunes VM bootstrap
// sizing and diagnostic verbosity for the `run` and `repl` commands. It
// never affects language semantics, only how the VM is set up before
// running a program.
package boxconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// defaultInitialHeapSize is the heap size a VM starts with when no config
// file is given, or the file doesn't set this field.
const defaultInitialHeapSize = 0

// Config holds the tunable knobs read from a boxlang.yaml file.
type Config struct {
	// InitialHeapSize pre-grows the VM's heap to this many slots before
	// running anything, avoiding the first few allocations each triggering
	// a no-op Collect. Zero means "let the VM grow its heap on demand".
	InitialHeapSize int `yaml:"initial_heap_size"`

	// GCStats mirrors the `--gc-stats` flag: true makes `run`/`repl` print
	// collector counters after execution even without the flag.
	GCStats bool `yaml:"gc_stats"`
}

// Default returns the Config used when no file is provided.
func Default() Config {
	return Config{InitialHeapSize: defaultInitialHeapSize}
}

// Load reads and parses the YAML config file at path. An empty path
// returns Default() without touching the filesystem, so callers can pass
// through a possibly-unset `--config` flag unconditionally.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package boxconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tiagotmartinez/boxlang/internal/boxconfig"
)

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := boxconfig.Load("")
	require.NoError(t, err)
	require.Equal(t, boxconfig.Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxlang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial_heap_size: 64\ngc_stats: true\n"), 0o600))

	cfg, err := boxconfig.Load(path)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.InitialHeapSize)
	require.True(t, cfg.GCStats)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := boxconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadPartialFileKeepsOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxlang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gc_stats: true\n"), 0o600))

	cfg, err := boxconfig.Load(path)
	require.NoError(t, err)
	require.True(t, cfg.GCStats)
	require.Equal(t, 0, cfg.InitialHeapSize)
}

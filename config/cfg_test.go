package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, validate.Struct(cfg))
	require.Equal(t, 10, cfg.Reader.PDF.CacheWindowPages)
	require.InDelta(t, 0.40, cfg.Reader.PDF.StickyPageRatio, 1e-9)
}

func TestLoadConfigurationEmptyPath(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigurationFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1
reader:
  default_margin: 6
  default_theme: solarized
  scrolloff: 5
  jump_list_capacity: 50
  bookmark_throttle_ms: 1000
  yank_highlight_ms: 300
  comment_sidebar_min_cols: 30
  pdf:
    worker_count: 4
    cache_window_pages: 8
    sticky_page_ratio: 0.5
    default_scale: 1.5
    min_scale: 0.5
    max_scale: 4.0
    zoom_step: 1.2
`), 0o644))

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)
	require.Equal(t, 6, cfg.Reader.DefaultMargin)
	require.Equal(t, "solarized", cfg.Reader.DefaultTheme)
	require.Equal(t, 4, cfg.Reader.PDF.WorkerCount)
}

func TestLoadConfigurationRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nbogus_field: true\n"), 0o644))

	_, err := LoadConfiguration(path)
	require.Error(t, err)
}

func TestLoadConfigurationRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1
reader:
  default_margin: -1
  default_theme: x
  pdf:
    worker_count: 1
    cache_window_pages: 1
    sticky_page_ratio: 0.4
    default_scale: 1.0
    min_scale: 0.5
    max_scale: 4.0
    zoom_step: 1.1
`), 0o644))

	_, err := LoadConfiguration(path)
	require.Error(t, err)
}

func TestDump(t *testing.T) {
	data, err := Dump(DefaultConfig())
	require.NoError(t, err)
	require.Contains(t, string(data), "version: 1")
}

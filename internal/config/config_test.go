package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns a valid configuration
// - LoadConfigFromDir() uses defaults when no config file exists
// - LoadConfigFromDir() merges .fxsupport/config.yml over defaults
// - Environment variables override the config file
// - Malformed YAML and invalid values are rejected
// - Validate() reports each invalid section with its sentinel
// - Conversions feed the builder, indentation and watcher settings

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, ".fxsupport")
	require.NoError(t, os.MkdirAll(cfgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yml"), []byte(content), 0644))
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 4, cfg.Editor.TabSize)
	assert.True(t, cfg.Editor.InsertSpaces)
	assert.Equal(t, "src", cfg.Paths.SourceRoot)
	assert.Equal(t, "src/main/java", cfg.Paths.JavaRoot)
	assert.Equal(t, []string{"**/*.fxml"}, cfg.Paths.Views)
	assert.Equal(t, "jfxbuilder", cfg.Builder.PackageDir)
	assert.Equal(t, []string{"LayoutFlags", "ParentTraversalEngine"}, cfg.Builder.DenyList)
	assert.Equal(t, []string{"67108965", "268435844"}, cfg.Builder.SafeDiagnosticCodes)
	assert.Equal(t, 20, cfg.Builder.RepairRetries)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, defaults.Editor, cfg.Editor)
	assert.Equal(t, defaults.Paths.Views, cfg.Paths.Views)
	assert.Equal(t, defaults.Paths.Ignore, cfg.Paths.Ignore)
	assert.Equal(t, defaults.Builder.SafeDiagnosticCodes, cfg.Builder.SafeDiagnosticCodes)
	assert.Equal(t, defaults.Watch, cfg.Watch)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `
editor:
  tab_size: 2
  insert_spaces: false
paths:
  java_root: app/java
  library_sources:
    - vendor/javafx-src
builder:
  package_dir: builders
  repair_retries: 0
`)

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Editor.TabSize)
	assert.False(t, cfg.Editor.InsertSpaces)
	assert.Equal(t, "app/java", cfg.Paths.JavaRoot)
	assert.Equal(t, "src", cfg.Paths.SourceRoot)
	assert.Equal(t, "builders", cfg.Builder.PackageDir)
	assert.Equal(t, 0, cfg.Builder.RepairRetries)
	assert.Equal(t, 500, cfg.Builder.RepairIntervalMs)
	assert.Equal(t, []string{
		filepath.Join(dir, "app", "java"),
		filepath.Join(dir, "vendor", "javafx-src"),
	}, cfg.JavaRoots(dir))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "editor:\n  tab_size: 2\n")
	t.Setenv("FXSUPPORT_EDITOR_TAB_SIZE", "8")
	t.Setenv("FXSUPPORT_WATCH_DEBOUNCE_MS", "100")

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Editor.TabSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Debounce())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	malformed := t.TempDir()
	writeConfig(t, malformed, "editor: [unclosed\n")
	_, err := LoadConfigFromDir(malformed)
	assert.ErrorContains(t, err, "failed to read config file")

	invalid := t.TempDir()
	writeConfig(t, invalid, "editor:\n  tab_size: 0\n")
	_, err = LoadConfigFromDir(invalid)
	assert.ErrorIs(t, err, ErrInvalidTabSize)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"tab size", func(c *Config) { c.Editor.TabSize = -1 }, ErrInvalidTabSize},
		{"bad glob", func(c *Config) { c.Paths.Views = []string{"[abc"} }, ErrInvalidPattern},
		{"no views", func(c *Config) { c.Paths.Views = nil }, ErrEmptyPatterns},
		{"escaping root", func(c *Config) { c.Paths.JavaRoot = "../elsewhere" }, ErrInvalidRoot},
		{"package dir", func(c *Config) { c.Builder.PackageDir = "jfx.builder" }, ErrInvalidPackageDir},
		{"retries", func(c *Config) { c.Builder.RepairRetries = -1 }, ErrInvalidRepairSettings},
		{"debounce", func(c *Config) { c.Watch.DebounceMs = 0 }, ErrInvalidDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.want)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Editor.TabSize = 0
	cfg.Watch.DebounceMs = -5

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "tab_size")
	assert.Contains(t, err.Error(), "debounce_ms")
}

func TestConversions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Builder.RepairIntervalMs = 250

	opts := cfg.BuilderOptions()
	assert.Equal(t, "jfxbuilder", opts.PackageDir)
	assert.Equal(t, 250*time.Millisecond, opts.Repair.Interval)
	assert.Equal(t, cfg.Builder.DenyList, opts.Collect.DenyList)
	assert.Equal(t, "set", opts.Collect.Prefix)

	indent := cfg.Indent()
	assert.Equal(t, "    ", indent.Unit())

	assert.Equal(t, []string{".fxml", ".java"}, cfg.WatchExtensions())
}

// Package config loads fxsupport settings from .fxsupport/config.yml with
// FXSUPPORT_* environment overrides.
package config

import (
	"path/filepath"
	"time"

	"github.com/mvp-joe/javafx-support/internal/builder"
	"github.com/mvp-joe/javafx-support/internal/hierarchy"
	"github.com/mvp-joe/javafx-support/internal/javatext"
)

// Config represents the complete fxsupport configuration.
type Config struct {
	Editor  EditorConfig  `yaml:"editor" mapstructure:"editor"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Builder BuilderConfig `yaml:"builder" mapstructure:"builder"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

// EditorConfig carries the indentation settings used when no indentation can
// be inferred from the file.
type EditorConfig struct {
	TabSize      int  `yaml:"tab_size" mapstructure:"tab_size"`
	InsertSpaces bool `yaml:"insert_spaces" mapstructure:"insert_spaces"`
}

// PathsConfig defines where views, controllers and library sources live.
type PathsConfig struct {
	SourceRoot     string   `yaml:"source_root" mapstructure:"source_root"`         // views outside it are not indexed
	JavaRoot       string   `yaml:"java_root" mapstructure:"java_root"`             // controller class names resolve here
	Views          []string `yaml:"views" mapstructure:"views"`                     // glob patterns for FXML files
	Controllers    []string `yaml:"controllers" mapstructure:"controllers"`         // glob patterns for Java files
	Ignore         []string `yaml:"ignore" mapstructure:"ignore"`                   // glob patterns to ignore
	LibrarySources []string `yaml:"library_sources" mapstructure:"library_sources"` // extra Java source trees, e.g. unpacked JavaFX sources
}

// BuilderConfig controls builder generation.
type BuilderConfig struct {
	PackageDir          string   `yaml:"package_dir" mapstructure:"package_dir"`
	DenyList            []string `yaml:"deny_list" mapstructure:"deny_list"`
	UITypeMarker        string   `yaml:"ui_type_marker" mapstructure:"ui_type_marker"`
	RepairRetries       int      `yaml:"repair_retries" mapstructure:"repair_retries"`
	RepairIntervalMs    int      `yaml:"repair_interval_ms" mapstructure:"repair_interval_ms"`
	SafeDiagnosticCodes []string `yaml:"safe_diagnostic_codes" mapstructure:"safe_diagnostic_codes"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	DebounceMs     int  `yaml:"debounce_ms" mapstructure:"debounce_ms"`
	ReloadOnSwitch bool `yaml:"reload_on_switch" mapstructure:"reload_on_switch"` // full reload on git checkout
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabSize:      4,
			InsertSpaces: true,
		},
		Paths: PathsConfig{
			SourceRoot:  "src",
			JavaRoot:    "src/main/java",
			Views:       []string{"**/*.fxml"},
			Controllers: []string{"**/*.java"},
			Ignore: []string{
				".git/**",
				"build/**",
				"target/**",
				"out/**",
				"bin/**",
				".gradle/**",
				".idea/**",
				"node_modules/**",
			},
			LibrarySources: []string{},
		},
		Builder: BuilderConfig{
			PackageDir:          builder.DefaultPackageDir,
			DenyList:            append([]string(nil), hierarchy.DefaultDenyList...),
			UITypeMarker:        builder.DefaultUITypeMarker,
			RepairRetries:       20,
			RepairIntervalMs:    500,
			SafeDiagnosticCodes: append([]string(nil), builder.DefaultSafeCodes...),
		},
		Watch: WatchConfig{
			DebounceMs:     500,
			ReloadOnSwitch: true,
		},
	}
}

// Indent returns the editor indentation settings.
func (c *Config) Indent() javatext.IndentConfig {
	return javatext.IndentConfig{TabSize: c.Editor.TabSize, InsertSpaces: c.Editor.InsertSpaces}
}

// BuilderOptions converts the builder section for builder.NewGenerator.
func (c *Config) BuilderOptions() builder.Options {
	return builder.Options{
		PackageDir: c.Builder.PackageDir,
		Ignores:    c.Paths.Ignore,
		Collect: hierarchy.Options{
			Prefix:   "set",
			DenyList: c.Builder.DenyList,
		},
		Repair: builder.RepairOptions{
			Retries:   c.Builder.RepairRetries,
			Interval:  time.Duration(c.Builder.RepairIntervalMs) * time.Millisecond,
			SafeCodes: c.Builder.SafeDiagnosticCodes,
		},
	}
}

// JavaRoots returns the absolute Java source trees under rootDir: the java
// root followed by library sources. Absolute library paths are kept as-is.
func (c *Config) JavaRoots(rootDir string) []string {
	roots := []string{filepath.Join(rootDir, filepath.FromSlash(c.Paths.JavaRoot))}
	for _, lib := range c.Paths.LibrarySources {
		if filepath.IsAbs(lib) {
			roots = append(roots, lib)
			continue
		}
		roots = append(roots, filepath.Join(rootDir, filepath.FromSlash(lib)))
	}
	return roots
}

// Debounce returns the watcher quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// WatchExtensions lists the file extensions the watcher monitors, taken from
// the view and controller patterns.
func (c *Config) WatchExtensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, pattern := range append(append([]string(nil), c.Paths.Views...), c.Paths.Controllers...) {
		if ext := extractExtension(pattern); ext != "" && !seen[ext] {
			seen[ext] = true
			exts = append(exts, ext)
		}
	}
	return exts
}

// extractExtension extracts the file extension from a glob pattern.
// Examples: "**/*.fxml" -> ".fxml", "*.java" -> ".java"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}

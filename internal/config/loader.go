package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (FXSUPPORT_*)
// 2. Config file (.fxsupport/config.yml or .fxsupport/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, ".fxsupport"))

	v.SetEnvPrefix("FXSUPPORT")
	v.AutomaticEnv()
	// FXSUPPORT_EDITOR_TAB_SIZE -> editor.tab_size
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("editor.tab_size")
	v.BindEnv("editor.insert_spaces")

	v.BindEnv("paths.source_root")
	v.BindEnv("paths.java_root")

	v.BindEnv("builder.package_dir")
	v.BindEnv("builder.ui_type_marker")
	v.BindEnv("builder.repair_retries")
	v.BindEnv("builder.repair_interval_ms")

	v.BindEnv("watch.debounce_ms")
	v.BindEnv("watch.reload_on_switch")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file means defaults + env.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("editor.tab_size", defaults.Editor.TabSize)
	v.SetDefault("editor.insert_spaces", defaults.Editor.InsertSpaces)

	v.SetDefault("paths.source_root", defaults.Paths.SourceRoot)
	v.SetDefault("paths.java_root", defaults.Paths.JavaRoot)
	v.SetDefault("paths.views", defaults.Paths.Views)
	v.SetDefault("paths.controllers", defaults.Paths.Controllers)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
	v.SetDefault("paths.library_sources", defaults.Paths.LibrarySources)

	v.SetDefault("builder.package_dir", defaults.Builder.PackageDir)
	v.SetDefault("builder.deny_list", defaults.Builder.DenyList)
	v.SetDefault("builder.ui_type_marker", defaults.Builder.UITypeMarker)
	v.SetDefault("builder.repair_retries", defaults.Builder.RepairRetries)
	v.SetDefault("builder.repair_interval_ms", defaults.Builder.RepairIntervalMs)
	v.SetDefault("builder.safe_diagnostic_codes", defaults.Builder.SafeDiagnosticCodes)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	v.SetDefault("watch.reload_on_switch", defaults.Watch.ReloadOnSwitch)
}

// LoadConfig loads configuration rooted at the working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/HydroRoll-Team/ipm-server/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "ipmindex"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// RepoConfigFileName is the name of a repository config file (without extension).
	RepoConfigFileName = "ipmindex"

	// maxConfigFileSize bounds config files read into memory.
	maxConfigFileSize = 1 << 20
)

// configExts lists the accepted config file extensions in lookup order.
var configExts = []string{".cue", ".toml"}

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the per-user ipmindex directory: $XDG_CONFIG_HOME/ipmindex
// (or ~/.config/ipmindex) on Linux, ~/Library/Application Support/ipmindex on
// macOS and %AppData%\ipmindex on Windows.
//
//nolint:revive // config.Dir would read as the repository directory
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Resolve returns the config file opts select, or "" when defaults apply.
// An explicit ConfigFilePath is returned even if it does not exist.
func Resolve(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return string(opts.ConfigFilePath), nil
	}

	if opts.RepoRoot != "" {
		if path := firstExisting(filepath.Join(string(opts.RepoRoot), RepoConfigFileName)); path != "" {
			return path, nil
		}
	}

	cfgDir := string(opts.ConfigDirPath)
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return firstExisting(filepath.Join(cfgDir, ConfigFileName)), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	path, err := Resolve(opts)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("archive.format", defaults.Archive.Format)
	v.SetDefault("archive.extension", defaults.Archive.Extension)
	v.SetDefault("checksum", defaults.Checksum)
	v.SetDefault("stylesheet", defaults.Stylesheet)
	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("meta_collections", defaults.MetaCollections)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)

	if path != "" {
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'ipmindex config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		if err := loadFileIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestions(
					"Check that the file contains valid CUE or TOML syntax",
					"Verify the configuration values match the expected schema",
					"Run 'ipmindex config dump' for a complete example",
				).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Fix the fields listed above").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// loadFileIntoViper decodes a CUE or TOML file, validates it against the
// #Config schema and merges it into v.
func loadFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	var userValue cue.Value
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		userValue = ctx.Encode(raw)
	} else {
		userValue = ctx.CompileBytes(data, cue.Filename(path))
	}
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// formatCUEError flattens CUE errors into "<file>: <field.path>: <message>"
// lines.
func formatCUEError(err error, path string) error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		field := strings.Join(cueerrors.Path(e), ".")
		msg := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(e.Error(), field), ":"))
		if field != "" {
			msg = field + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", path, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", path, strings.Join(lines, "\n  "))
}

// firstExisting returns base plus the first accepted extension that names a
// regular file, or "".
func firstExisting(base string) string {
	for _, ext := range configExts {
		if fileExists(base + ext) {
			return base + ext
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

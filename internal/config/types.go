// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/HydroRoll-Team/ipm-server/internal/catalog"
	"github.com/HydroRoll-Team/ipm-server/internal/discovery"
	"github.com/HydroRoll-Team/ipm-server/internal/metacollection"
	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
	"github.com/HydroRoll-Team/ipm-server/pkg/checksum"
	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

// Glamour styles for issue help on a terminal. "auto" renders dark.
const (
	ColorSchemeAuto  ColorScheme = "auto"
	ColorSchemeDark  ColorScheme = "dark"
	ColorSchemeLight ColorScheme = "light"
)

var (
	ErrInvalidColorScheme = errors.New("invalid color scheme")

	// ErrInvalidConfig marks a decoded config that fails Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects light or dark issue rendering.
	ColorScheme string

	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError lists every failing field, not just the first.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the merged result of defaults and at most one config file.
	Config struct {
		// Archive selects how package archives are paired and read.
		Archive ArchiveConfig `json:"archive" mapstructure:"archive" toml:"archive" yaml:"archive"`
		// Checksum is the digest recorded for each package archive.
		Checksum checksum.Algorithm `json:"checksum" mapstructure:"checksum" toml:"checksum" yaml:"checksum"`
		// Stylesheet is referenced by the catalog header; empty omits it.
		Stylesheet string `json:"stylesheet" mapstructure:"stylesheet" toml:"stylesheet" yaml:"stylesheet"`
		// Ignore lists doublestar patterns skipped during discovery.
		Ignore []string `json:"ignore" mapstructure:"ignore" toml:"ignore" yaml:"ignore"`
		// MetaCollections are generated by generate-meta-collections.
		MetaCollections []MetaCollectionConfig `json:"meta_collections" mapstructure:"meta_collections" toml:"meta_collections" yaml:"meta_collections"`
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui" yaml:"ui"`

		// Source is the file the configuration was loaded from, or "" for
		// built-in defaults.
		Source string `json:"-" mapstructure:"-" toml:"-" yaml:"-"`
	}

	// ArchiveConfig configures package archives.
	ArchiveConfig struct {
		Format    archive.Format `json:"format" mapstructure:"format" toml:"format" yaml:"format"`
		Extension string         `json:"extension" mapstructure:"extension" toml:"extension" yaml:"extension"`
	}

	// MetaCollectionConfig is one generated collection.
	MetaCollectionConfig struct {
		ID      types.Identifier `json:"id" mapstructure:"id" toml:"id" yaml:"id"`
		Name    string           `json:"name" mapstructure:"name" toml:"name" yaml:"name"`
		Pattern string           `json:"pattern" mapstructure:"pattern" toml:"pattern" yaml:"pattern"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// Verbose has the same effect as --verbose.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose" yaml:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme" yaml:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	defs := metacollection.DefaultDefinitions()
	metas := make([]MetaCollectionConfig, 0, len(defs))
	for _, d := range defs {
		metas = append(metas, MetaCollectionConfig{ID: d.ID, Name: d.Name, Pattern: d.Pattern})
	}

	return &Config{
		Archive: ArchiveConfig{
			Format:    archive.DefaultFormat,
			Extension: archive.DefaultExtension,
		},
		Checksum:        checksum.AlgorithmMD5,
		Stylesheet:      catalog.DefaultStylesheet,
		Ignore:          discovery.DefaultIgnore(),
		MetaCollections: metas,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate checks constraints the schema cannot express, such as glob
// syntax and duplicate meta-collection ids.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Archive.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if ext := c.Archive.Extension; ext != "" && (!strings.HasPrefix(ext, ".") || ext == discovery.DescriptorExt) {
		errs = append(errs, fmt.Errorf("archive.extension %q must start with a dot and differ from %s", ext, discovery.DescriptorExt))
	}
	if err := c.Checksum.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("ignore[%d]: invalid pattern %q", i, pattern))
		}
	}
	seen := make(map[types.Identifier]bool, len(c.MetaCollections))
	for i, d := range c.Definitions() {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("meta_collections[%d]: %w", i, err))
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Errorf("meta_collections[%d]: duplicate id %q", i, d.ID))
		}
		seen[d.ID] = true
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Definitions converts MetaCollections for the generator.
func (c *Config) Definitions() []metacollection.Definition {
	defs := make([]metacollection.Definition, 0, len(c.MetaCollections))
	for _, m := range c.MetaCollections {
		defs = append(defs, metacollection.Definition{ID: m.ID, Name: m.Name, Pattern: m.Pattern})
	}
	return defs
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func (cs ColorScheme) String() string { return string(cs) }

// Validate accepts the three named schemes and the empty string (auto).
func (cs ColorScheme) Validate() error {
	switch cs {
	case "", ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

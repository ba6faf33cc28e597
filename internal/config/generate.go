// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE renders configuration as CUE.
	FormatCUE DumpFormat = "cue"
	// FormatTOML renders configuration as TOML.
	FormatTOML DumpFormat = "toml"
	// FormatYAML renders configuration as YAML.
	FormatYAML DumpFormat = "yaml"
)

// ErrInvalidDumpFormat is returned for an unknown DumpFormat.
var ErrInvalidDumpFormat = errors.New("invalid dump format")

// DumpFormat names a configuration serialization.
type DumpFormat string

// Validate returns an error if the DumpFormat is not recognized.
func (f DumpFormat) Validate() error {
	switch f {
	case FormatCUE, FormatTOML, FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w %q (valid: cue, toml, yaml)", ErrInvalidDumpFormat, string(f))
	}
}

// Generate renders cfg in the requested format.
func Generate(cfg *Config, format DumpFormat) (string, error) {
	if err := format.Validate(); err != nil {
		return "", err
	}
	switch format {
	case FormatTOML:
		return GenerateTOML(cfg)
	case FormatYAML:
		return GenerateYAML(cfg)
	default:
		return GenerateCUE(cfg), nil
	}
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// ipmindex configuration file\n")
	sb.WriteString("// See https://github.com/HydroRoll-Team/ipm-server for documentation.\n\n")

	sb.WriteString("archive: {\n")
	sb.WriteString(fmt.Sprintf("\tformat:    %q\n", cfg.Archive.Format))
	sb.WriteString(fmt.Sprintf("\textension: %q\n", cfg.Archive.Extension))
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("checksum:   %q\n", cfg.Checksum))
	sb.WriteString(fmt.Sprintf("stylesheet: %q\n", cfg.Stylesheet))

	sb.WriteString("\nignore: [")
	for i, pattern := range cfg.Ignore {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%q", pattern))
	}
	sb.WriteString("]\n")

	if len(cfg.MetaCollections) > 0 {
		sb.WriteString("\nmeta_collections: [\n")
		for _, m := range cfg.MetaCollections {
			sb.WriteString(fmt.Sprintf("\t{id: %q, name: %q, pattern: %q},\n", m.ID, m.Name, m.Pattern))
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tverbose:      %v\n", cfg.UI.Verbose))
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString("}\n")

	return sb.String()
}

// GenerateTOML generates a TOML representation of the configuration.
func GenerateTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return string(data), nil
}

// GenerateYAML generates a YAML representation of the configuration.
func GenerateYAML(cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as YAML: %w", err)
	}
	return string(data), nil
}

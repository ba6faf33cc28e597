// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FormatZip is a ZIP container.
	FormatZip Format = "zip"
	// FormatTarZstd is a tar stream compressed with Zstandard.
	FormatTarZstd Format = "tar.zst"
	// FormatTarLZ4 is a tar stream compressed with LZ4.
	FormatTarLZ4 Format = "tar.lz4"

	// DefaultFormat is used when no format is configured.
	DefaultFormat = FormatZip
	// DefaultExtension is the archive extension ipm repositories publish.
	// It names a ZIP container.
	DefaultExtension = ".ipk"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid archive format")

type (
	// Format selects the container format of package archives.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}
)

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid archive format %q (valid: %s)", e.Value, strings.Join(formatNames(), ", "))
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatZip, FormatTarZstd, FormatTarLZ4}
}

func formatNames() []string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return names
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Validate returns an error if the Format is not supported.
// The zero value is valid and means DefaultFormat.
func (f Format) Validate() error {
	switch f {
	case "", FormatZip, FormatTarZstd, FormatTarLZ4:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// orDefault resolves the zero value to DefaultFormat.
func (f Format) orDefault() Format {
	if f == "" {
		return DefaultFormat
	}
	return f
}

// Extension returns the conventional file extension for the format. ZIP
// archives use the ipm extension rather than ".zip".
func (f Format) Extension() string {
	switch f.orDefault() {
	case FormatTarZstd:
		return ".tar.zst"
	case FormatTarLZ4:
		return ".tar.lz4"
	default:
		return DefaultExtension
	}
}

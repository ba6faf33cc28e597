// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodePackagesRootMissing reports that the packages root does not exist.
	CodePackagesRootMissing DiagnosticCode = "packages_root_missing"
	// CodeCollectionsRootMissing reports that the collections root does not exist.
	CodeCollectionsRootMissing DiagnosticCode = "collections_root_missing"
	// CodeArchiveWithoutDescriptor reports an archive with no sibling descriptor.
	CodeArchiveWithoutDescriptor DiagnosticCode = "archive_without_descriptor"
)

var (
	// ErrInvalidSeverity is returned when a Severity value is not recognized.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is returned when a DiagnosticCode value is not recognized.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "archive_without_descriptor").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// Diagnostics collects diagnostics produced during discovery. The zero
	// value is ready to use. A Diagnostics is not safe for concurrent use.
	Diagnostics struct {
		items []Diagnostic
	}
)

// Validate returns an error if the Severity is not recognized.
func (s Severity) Validate() error {
	switch s {
	case SeverityWarning, SeverityError:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSeverity, string(s))
	}
}

// Validate returns an error if the DiagnosticCode is not recognized.
func (c DiagnosticCode) Validate() error {
	switch c {
	case CodePackagesRootMissing, CodeCollectionsRootMissing, CodeArchiveWithoutDescriptor:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDiagnosticCode, string(c))
	}
}

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// Add records d. A nil sink discards it.
func (ds *Diagnostics) Add(d Diagnostic) {
	if ds == nil {
		return
	}
	slog.Debug("discovery diagnostic", "severity", d.Severity, "code", d.Code, "path", d.Path)
	ds.items = append(ds.items, d)
}

// Warn records a warning diagnostic.
func (ds *Diagnostics) Warn(code DiagnosticCode, path, message string) {
	ds.Add(Diagnostic{Severity: SeverityWarning, Code: code, Path: path, Message: message})
}

// All returns a copy of the recorded diagnostics in insertion order.
func (ds *Diagnostics) All() []Diagnostic {
	if ds == nil {
		return nil
	}
	return slices.Clone(ds.items)
}

// Len returns the number of recorded diagnostics.
func (ds *Diagnostics) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.items)
}

// HasCode reports whether a diagnostic with the given code was recorded.
func (ds *Diagnostics) HasCode(code DiagnosticCode) bool {
	if ds == nil {
		return false
	}
	return slices.ContainsFunc(ds.items, func(d Diagnostic) bool { return d.Code == code })
}

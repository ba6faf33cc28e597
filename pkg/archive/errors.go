// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptArchive is the sentinel error wrapped by CorruptArchiveError.
	ErrCorruptArchive = errors.New("unreadable or corrupt archive")
	// ErrArchiveLayout is the sentinel error wrapped by LayoutError.
	ErrArchiveLayout = errors.New("archive layout violation")
)

type (
	// CorruptArchiveError is returned when a file cannot be opened or read
	// as an archive of the requested format.
	CorruptArchiveError struct {
		Path   string
		Format Format
		Cause  error
	}

	// LayoutError is returned when an archive entry lies outside the single
	// top-level directory named after the package identifier.
	LayoutError struct {
		Path  string
		ID    string
		Entry string
	}
)

// Error implements the error interface.
func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("%s: unreadable or corrupt %s archive: %v", e.Path, e.Format, e.Cause)
}

// Unwrap returns ErrCorruptArchive and the underlying cause.
func (e *CorruptArchiveError) Unwrap() []error { return []error{ErrCorruptArchive, e.Cause} }

// Error implements the error interface.
func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s: archive does not expand to a single subdirectory named %s (entry %q)", e.Path, e.ID, e.Entry)
}

// Unwrap returns ErrArchiveLayout for errors.Is() compatibility.
func (e *LayoutError) Unwrap() error { return ErrArchiveLayout }

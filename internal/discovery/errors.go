// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArchive is the sentinel error wrapped by MissingArchiveError.
	ErrMissingArchive = errors.New("missing archive")
	// ErrIdentifierMismatch is the sentinel error wrapped by IdentifierMismatchError.
	ErrIdentifierMismatch = errors.New("identifier mismatch")
	// ErrStreamConsumed is yielded when a stream is iterated more than once.
	ErrStreamConsumed = errors.New("discovery stream already consumed")
)

type (
	// MissingArchiveError is returned when a package descriptor has no
	// archive with the same base name next to it.
	MissingArchiveError struct {
		Descriptor string
		Archive    string
	}

	// IdentifierMismatchError is returned when the id declared inside a
	// descriptor differs from the descriptor's file name.
	IdentifierMismatchError struct {
		Path     string
		Expected string
		Declared string
	}
)

// Error implements the error interface.
func (e *MissingArchiveError) Error() string {
	return fmt.Sprintf("%s: missing archive %s", e.Descriptor, e.Archive)
}

// Unwrap returns ErrMissingArchive for errors.Is() compatibility.
func (e *MissingArchiveError) Unwrap() error { return ErrMissingArchive }

// Error implements the error interface.
func (e *IdentifierMismatchError) Error() string {
	return fmt.Sprintf("%s: identifier mismatch: descriptor declares id %q, file name requires %q", e.Path, e.Declared, e.Expected)
}

// Unwrap returns ErrIdentifierMismatch for errors.Is() compatibility.
func (e *IdentifierMismatchError) Unwrap() error { return ErrIdentifierMismatch }

// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIdentifier is the sentinel error wrapped by InvalidIdentifierError.
var ErrInvalidIdentifier = errors.New("invalid identifier")

type (
	// Identifier is the catalog-wide id of a package or collection. It is the
	// descriptor's file stem, the value of its id attribute and, for packages,
	// the name of the single top-level directory inside the archive.
	Identifier string

	// InvalidIdentifierError is returned when an Identifier cannot name a
	// file stem or an archive directory.
	InvalidIdentifierError struct {
		Value  Identifier
		Reason string
	}
)

// String returns the string representation of the Identifier.
func (id Identifier) String() string { return string(id) }

// Validate rejects empty ids, path separators and the "." / ".." entries.
func (id Identifier) Validate() error {
	s := string(id)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidIdentifierError{Value: id, Reason: "must be non-empty"}
	case s == "." || s == "..":
		return &InvalidIdentifierError{Value: id, Reason: "must not be a relative path element"}
	case strings.ContainsAny(s, `/\`):
		return &InvalidIdentifierError{Value: id, Reason: "must not contain path separators"}
	}
	return nil
}

// Error implements the error interface for InvalidIdentifierError.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidIdentifier for errors.Is() compatibility.
func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

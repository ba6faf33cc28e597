// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath reports a blank path.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath names a repository root, config file or config
	// directory on disk. Blank values are invalid.
	FilesystemPath string

	// InvalidFilesystemPathError carries the rejected path.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

func (p FilesystemPath) String() string { return string(p) }

// Validate rejects empty and whitespace-only paths.
func (p FilesystemPath) Validate() error {
	if strings.TrimSpace(string(p)) != "" {
		return nil
	}
	return &InvalidFilesystemPathError{Value: p}
}

func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("filesystem path %q is blank", e.Value)
}

func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

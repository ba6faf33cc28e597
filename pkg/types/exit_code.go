// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Process statuses reported by ipmindex.
const (
	ExitSuccess ExitCode = 0
	// ExitFailure covers discovery, validation and output failures.
	ExitFailure ExitCode = 1
	// ExitUsage means the command line was rejected before any work started.
	ExitUsage ExitCode = 2
)

// ErrInvalidExitCode reports a status that cannot be passed to os.Exit portably.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process status. Portable statuses fit in one byte.
	ExitCode int

	// InvalidExitCodeError carries the rejected status.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d out of range [0, 255]", e.Value)
}

func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate rejects statuses outside a single byte.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is ExitSuccess.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"plain", errors.New("boom"), types.ExitFailure},
		{"usage", usageError(errors.New("accepts 3 arg(s)")), types.ExitUsage},
		{"wrapped usage", fmt.Errorf("run: %w", usageError(errors.New("bad"))), types.ExitUsage},
		{"reported failure", &ExitError{Code: types.ExitFailure}, types.ExitFailure},
		{"zero code", &ExitError{Code: types.ExitSuccess, Err: errors.New("odd")}, types.ExitFailure},
		{"out of range", &ExitError{Code: 300}, types.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeOf(tt.err); got != tt.want {
				t.Errorf("exitCodeOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("accepts 1 arg(s), received 0")
	err := &ExitError{Code: types.ExitUsage, Err: cause}
	if err.Error() != cause.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	bare := &ExitError{Code: types.ExitFailure}
	if bare.Error() != "exit status 1" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "exit status 1")
	}
	if usageError(nil) != nil {
		t.Error("usageError(nil) should be nil")
	}
}

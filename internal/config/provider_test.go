// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

func TestLoadOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       LoadOptions
		wantErrors int
	}{
		{"all empty", LoadOptions{}, 0},
		{"all valid", LoadOptions{ConfigFilePath: "/tmp/config.cue", ConfigDirPath: "/tmp/config", RepoRoot: "/srv/repo"}, 0},
		{"whitespace config file", LoadOptions{ConfigFilePath: types.FilesystemPath("   ")}, 1},
		{"tab config dir", LoadOptions{ConfigDirPath: types.FilesystemPath("\t")}, 1},
		{"all invalid", LoadOptions{ConfigFilePath: " ", ConfigDirPath: " ", RepoRoot: " "}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantErrors == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidLoadOptions) {
				t.Fatalf("error should wrap ErrInvalidLoadOptions, got: %v", err)
			}
			var loadErr *InvalidLoadOptionsError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
			}
			if len(loadErr.FieldErrors) != tt.wantErrors {
				t.Errorf("expected %d field errors, got %d", tt.wantErrors, len(loadErr.FieldErrors))
			}
			for _, fe := range loadErr.FieldErrors {
				if !errors.Is(fe, types.ErrInvalidFilesystemPath) {
					t.Errorf("field error should wrap ErrInvalidFilesystemPath, got: %v", fe)
				}
			}
		})
	}
}

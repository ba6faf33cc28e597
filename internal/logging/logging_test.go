// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := New(&buf, tt.verbose)
			logger.Debug("walking packages", "root", "/srv/repo")
			logger.Warn("archive has no descriptor", "path", "packages/coc.ipk")

			out := buf.String()
			if got := strings.Contains(out, "walking packages"); got != tt.wantDebug {
				t.Errorf("debug record present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "archive has no descriptor") {
				t.Errorf("warn record missing:\n%s", out)
			}
			if !strings.Contains(out, "path=packages/coc.ipk") {
				t.Errorf("attributes missing:\n%s", out)
			}
			if !strings.Contains(out, Prefix) {
				t.Errorf("prefix %q missing:\n%s", Prefix, out)
			}
		})
	}
}

func TestSetup_InstallsDefault(t *testing.T) {
	// Not parallel: replaces the process-wide slog default.
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(&buf, false)
	slog.Info("catalog written", "packages", 3)

	if !strings.Contains(buf.String(), "catalog written") {
		t.Errorf("slog.Default() did not route to the handler:\n%s", buf.String())
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/HydroRoll-Team/ipm-server/internal/config"
	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

// isolatedProvider keeps tests away from the user's config directory.
type isolatedProvider struct {
	dir string
}

func (p isolatedProvider) Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	opts.ConfigDirPath = types.FilesystemPath(p.dir)
	return config.NewProvider().Load(ctx, opts)
}

// runCLI executes the command tree in-process and returns its output.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{
		Config: isolatedProvider{dir: t.TempDir()},
		Stdout: &out,
		Stderr: &errOut,
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

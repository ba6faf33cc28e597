// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HydroRoll-Team/ipm-server/internal/metacollection"
)

func newMetaCollectionsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-meta-collections <path-to-packages-root>",
		Short: "Write the generated collections under collections/",
		Long: `Write one collection descriptor per configured meta-collection.

Each meta-collection lists, sorted and without duplicates, the stems of the
files matching its glob pattern below the repository root. Existing files in
collections/ with the same identifier are replaced.

The defaults are all-collections, all-ipm and all; they can be replaced with
meta_collections in the configuration file.

Examples:
  ipmindex generate-meta-collections .
  ipmindex generate-meta-collections /srv/ipm-data`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			cfg, err := app.loadConfig(cmd.Context(), root)
			if err != nil {
				return err
			}

			written, err := metacollection.Generate(root, cfg.Definitions())
			for _, path := range written {
				display := path
				if rel, relErr := filepath.Rel(root, path); relErr == nil {
					display = filepath.ToSlash(rel)
				}
				fmt.Fprintf(app.stdout, "%s Wrote %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(display))
			}
			if err != nil {
				return classifyError(err, app.verbose)
			}
			return nil
		},
	}
}

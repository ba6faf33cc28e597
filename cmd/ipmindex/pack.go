// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HydroRoll-Team/ipm-server/internal/issue"
	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
)

func newPackCommand(app *App) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "pack <package-dir>",
		Short: "Create a package archive from a directory",
		Long: `Create a package archive that expands to a single directory named after
<package-dir>, which is the package identifier.

By default the archive is written next to the directory as <id><ext>, using
the archive format and extension from the configuration.

Examples:
  ipmindex pack packages/coc/coc
  ipmindex pack packages/coc/coc --format tar.zst
  ipmindex pack ./coc --output dist/coc.ipk`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := archive.Format(format).Validate(); err != nil {
				return usageError(err)
			}

			srcDir := args[0]
			// pack is run from the repository root.
			cfg, err := app.loadConfig(cmd.Context(), ".")
			if err != nil {
				return err
			}

			opts := archive.CreateOptions{
				Output:    output,
				Format:    cfg.Archive.Format,
				Extension: cfg.Archive.Extension,
			}
			if cmd.Flags().Changed("format") {
				opts.Format = archive.Format(format)
				opts.Extension = ""
			}

			path, err := archive.Create(srcDir, opts)
			if err != nil {
				return classifyError(issue.WrapWithContext(err, "pack package", srcDir), app.verbose)
			}

			fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default: <parent>/<id><ext>)")
	cmd.Flags().StringVar(&format, "format", "", "archive format: zip, tar.zst or tar.lz4 (default from config)")

	return cmd
}

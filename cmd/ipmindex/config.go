// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HydroRoll-Team/ipm-server/internal/config"
	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

// newConfigCommand creates the `ipmindex config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	var root string

	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect ipmindex configuration",
		Long: `Inspect ipmindex configuration.

A repository may carry ipmindex.cue or ipmindex.toml at its root. Otherwise
the user configuration is read from:
  - Linux: ~/.config/ipmindex/config.cue
  - macOS: ~/Library/Application Support/ipmindex/config.cue
  - Windows: %APPDATA%\ipmindex\config.cue
Built-in defaults apply when no file is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cfgCmd.PersistentFlags().StringVar(&root, "root", ".", "repository root searched for ipmindex.cue / ipmindex.toml")

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), root)
			if err != nil {
				return err
			}
			showConfig(app.stdout, cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			active, err := config.Resolve(config.LoadOptions{
				ConfigFilePath: types.FilesystemPath(app.configPath),
				RepoRoot:       types.FilesystemPath(root),
			})
			if err != nil {
				return err
			}
			if active == "" {
				active = "(none, using defaults)"
			}

			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Active config file: %s\n", active)
			return nil
		},
	})

	var dumpFormat string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE, TOML or YAML",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := config.DumpFormat(dumpFormat)
			if err := format.Validate(); err != nil {
				return usageError(err)
			}
			cfg, err := app.loadConfig(cmd.Context(), root)
			if err != nil {
				return err
			}
			out, err := config.Generate(cfg, format)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&dumpFormat, "format", string(config.FormatCUE), "output format: cue, toml or yaml")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.Source != "" {
		source = cfg.Source
	}
	fmt.Fprintf(w, "%s: %s\n\n", keyStyle.Render("Config file"), source)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("archive"))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(string(cfg.Archive.Format)))
	fmt.Fprintf(w, "  extension: %s\n", valueStyle.Render(cfg.Archive.Extension))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("checksum"), valueStyle.Render(string(cfg.Checksum)))

	stylesheet := valueStyle.Render(cfg.Stylesheet)
	if cfg.Stylesheet == "" {
		stylesheet = SubtitleStyle.Render("(none)")
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("stylesheet"), stylesheet)
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("ignore"), valueStyle.Render(strings.Join(cfg.Ignore, ", ")))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("meta_collections"))
	if len(cfg.MetaCollections) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, m := range cfg.MetaCollections {
		fmt.Fprintf(w, "  - %s %s %s\n", valueStyle.Render(string(m.ID)), SubtitleStyle.Render(m.Pattern), m.Name)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
}

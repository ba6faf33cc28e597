// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/HydroRoll-Team/ipm-server/internal/logging"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the ipmindex command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ipmindex",
		Short: "Build the package catalog of an ipm data repository",
		Long: TitleStyle.Render("ipmindex") + SubtitleStyle.Render(" - package catalog builder for ipm repositories") + `

ipmindex scans a repository containing packages/ and collections/,
verifies every package archive against its descriptor, and writes the
aggregated catalog consumed by the ipm installer.

` + SubtitleStyle.Render("Repository layout:") + `
  packages/<subdir>/<id>.xml    package descriptor
  packages/<subdir>/<id>.ipk    package archive expanding to <id>/
  collections/<id>.xml          collection descriptor

` + SubtitleStyle.Render("Examples:") + `
  ipmindex generate-meta-collections .
  ipmindex build-catalog . https://example.org/ipm index.xml
  ipmindex pack packages/coc/coc
  ipmindex config show`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(app.stderr, app.verbose)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default: <root>/ipmindex.cue, then the user config directory)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newBuildCatalogCommand(app),
		newMetaCollectionsCommand(app),
		newPackCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree and exits with the mapped exit code.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		os.Exit(int(exitCodeOf(err)))
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/HydroRoll-Team/ipm-server/internal/catalog"
	"github.com/HydroRoll-Team/ipm-server/internal/config"
	"github.com/HydroRoll-Team/ipm-server/internal/discovery"
	"github.com/HydroRoll-Team/ipm-server/internal/issue"
	"github.com/HydroRoll-Team/ipm-server/internal/watch"
	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
	"github.com/HydroRoll-Team/ipm-server/pkg/checksum"
)

type (
	// buildCatalogFlags holds the build-catalog overrides of the configuration.
	buildCatalogFlags struct {
		format     string
		extension  string
		checksum   string
		stylesheet string
		watch      bool
	}

	// buildRequest is one catalog build: the resolved options and where to
	// write the result.
	buildRequest struct {
		options    catalog.Options
		output     string
		stylesheet string
	}
)

func newBuildCatalogCommand(app *App) *cobra.Command {
	var flags buildCatalogFlags

	cmd := &cobra.Command{
		Use:   "build-catalog <path-to-packages-root> <base-url> <output-file>",
		Short: "Build the repository catalog",
		Long: `Build the catalog of every package and collection in a repository.

Each package descriptor is paired with its archive, checked for a matching
identifier and a single top-level directory, and annotated with the archive
size, unpacked size, checksum, subdirectory and download URL. Packages and
collections are sorted by identifier. Nothing is written when any package
fails validation or an identifier is used twice.

Examples:
  ipmindex build-catalog . https://example.org/ipm index.xml
  ipmindex build-catalog . https://example.org/ipm index.xml --checksum blake3
  ipmindex build-catalog . https://example.org/ipm index.xml --watch`,
		Args: usageArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildCatalog(cmd, app, args[0], args[1], args[2], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "archive format: zip, tar.zst or tar.lz4 (default from config)")
	cmd.Flags().StringVar(&flags.extension, "ext", "", "archive extension paired with descriptors (default from config)")
	cmd.Flags().StringVar(&flags.checksum, "checksum", "", "checksum algorithm: md5 or blake3 (default from config)")
	cmd.Flags().StringVar(&flags.stylesheet, "stylesheet", "", "XSL stylesheet referenced by the catalog (default from config)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever descriptors or archives change")

	return cmd
}

func runBuildCatalog(cmd *cobra.Command, app *App, root, baseURL, output string, flags buildCatalogFlags) error {
	if err := flags.validate(); err != nil {
		return usageError(err)
	}

	ctx := cmd.Context()
	cfg, err := app.loadConfig(ctx, root)
	if err != nil {
		return err
	}
	req := newBuildRequest(cfg, flags, cmd, root, baseURL, output)

	if !flags.watch {
		return app.buildCatalog(ctx, req)
	}

	if err := app.buildCatalog(ctx, req); err != nil {
		app.renderError(err)
	}

	w, err := watch.New(watch.Config{
		Root:      root,
		Extension: req.options.Extension,
		Output:    output,
		Ignore:    req.options.Ignore,
		Rebuild: func(ctx context.Context, changed []string) error {
			slog.Debug("rebuilding catalog", "changed", changed)
			if err := app.buildCatalog(ctx, req); err != nil {
				app.renderError(err)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "%s %s %s\n", SubtitleStyle.Render("Watching"), CmdStyle.Render(root), SubtitleStyle.Render("for changes (Ctrl+C to stop)"))
	return w.Run(ctx)
}

// buildCatalog runs one build, renders its diagnostics and writes the catalog.
func (a *App) buildCatalog(ctx context.Context, req buildRequest) error {
	diags := &discovery.Diagnostics{}
	opts := req.options
	opts.Diagnostics = diags

	result, err := catalog.Build(ctx, opts)
	a.renderDiagnostics(diags.All())
	if err != nil {
		return classifyError(err, a.verbose)
	}

	if err := catalog.WriteFile(req.output, result.Document, req.stylesheet); err != nil {
		return classifyError(issue.NewErrorContext().
			WithOperation("write catalog").
			WithResource(req.output).
			WithSuggestion("Check that the output directory exists and is writable").
			Wrap(err).
			BuildError(), a.verbose)
	}

	fmt.Fprintf(a.stdout, "%s Wrote %s (%d packages, %d collections)\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(req.output), len(result.Packages), len(result.Collections))
	return nil
}

// newBuildRequest overlays the command-line flags that were set on cfg.
func newBuildRequest(cfg *config.Config, flags buildCatalogFlags, cmd *cobra.Command, root, baseURL, output string) buildRequest {
	req := buildRequest{
		options: catalog.Options{
			Root:      root,
			BaseURL:   baseURL,
			Format:    cfg.Archive.Format,
			Extension: cfg.Archive.Extension,
			Checksum:  cfg.Checksum,
			Ignore:    cfg.Ignore,
		},
		output:     output,
		stylesheet: cfg.Stylesheet,
	}

	if cmd.Flags().Changed("format") {
		req.options.Format = archive.Format(flags.format)
		// A format chosen on the command line brings its own extension
		// unless --ext is also given.
		if !cmd.Flags().Changed("ext") {
			req.options.Extension = req.options.Format.Extension()
		}
	}
	if cmd.Flags().Changed("ext") {
		req.options.Extension = flags.extension
	}
	if cmd.Flags().Changed("checksum") {
		req.options.Checksum = checksum.Algorithm(flags.checksum)
	}
	if cmd.Flags().Changed("stylesheet") {
		req.stylesheet = flags.stylesheet
	}
	return req
}

func (f buildCatalogFlags) validate() error {
	if err := archive.Format(f.format).Validate(); err != nil {
		return err
	}
	if err := checksum.Algorithm(f.checksum).Validate(); err != nil {
		return err
	}
	return nil
}

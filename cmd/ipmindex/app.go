// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/HydroRoll-Team/ipm-server/internal/config"
	"github.com/HydroRoll-Team/ipm-server/internal/discovery"
	"github.com/HydroRoll-Team/ipm-server/internal/issue"
	"github.com/HydroRoll-Team/ipm-server/internal/logging"
	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; every Cobra handler receives an App reference.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer

		// verbose and configPath are bound to the global flags.
		verbose    bool
		configPath string
		// colorScheme is taken from the last loaded configuration.
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads the configuration for the repository at repoRoot. A
// failure is fatal: a broken config file must not silently fall back to
// defaults that produce a different catalog. ui.verbose from the file turns on
// debug logging when --verbose was not given.
func (a *App) loadConfig(ctx context.Context, repoRoot string) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.configPath),
		RepoRoot:       types.FilesystemPath(repoRoot),
	})
	if err != nil {
		return nil, classifyConfigError(err, a.verbose)
	}

	a.colorScheme = cfg.UI.ColorScheme
	if cfg.UI.Verbose && !a.verbose {
		a.verbose = true
		logging.Setup(a.stderr, true)
	}
	if cfg.Source != "" {
		slog.Debug("configuration loaded", "path", cfg.Source)
	}
	return cfg, nil
}

// renderDiagnostics writes structured diagnostics to stderr with lipgloss styling.
func (a *App) renderDiagnostics(diags []discovery.Diagnostic) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(a.stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}
		_, _ = fmt.Fprintf(a.stderr, "%s: %s\n", prefix, diag.Message)
	}
}

// renderError reports err on stderr. Errors that are not ServiceErrors are
// classified first.
func (a *App) renderError(err error) {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = classifyError(err, a.verbose)
	}
	renderServiceError(a.stderr, svcErr, a.glamourStyle())
}

// handleError is the fang error handler. Service errors get the issue help
// section; everything else, usage errors included, uses fang's rendering.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr, a.glamourStyle())
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// glamourStyle picks the issue rendering style for stderr.
func (a *App) glamourStyle() string {
	if f, ok := a.stderr.(*os.File); !ok || !isTerminal(f) {
		return "notty"
	}
	if a.colorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// classifyConfigError wraps a configuration load failure for rendering.
func classifyConfigError(err error, verbose bool) error {
	svcErr := classifyError(err, verbose)
	svcErr.IssueID = issue.ConfigLoadFailedId
	return svcErr
}

// SPDX-License-Identifier: MPL-2.0

// Package logging installs the charmbracelet/log handler behind log/slog.
//
// Library packages log through slog only; the CLI calls Setup once so their
// records are rendered with ipmindex's level styles on stderr.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Prefix is printed before every record.
const Prefix = "ipmindex"

// New returns a logger writing to w. Debug records are only emitted when
// verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          Prefix,
		ReportTimestamp: verbose,
	})
	handler.SetStyles(styles())

	return slog.New(handler)
}

// Setup installs New(w, verbose) as the slog default and returns it.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	logger := New(w, verbose)
	slog.SetDefault(logger)
	return logger
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(lipgloss.Color("#F59E0B"))
	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Bold(true).
		Foreground(lipgloss.Color("#EF4444"))
	s.Prefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	return s
}

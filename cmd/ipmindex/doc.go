// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for ipmindex.
//
// Command handlers receive an *App and never call os.Exit; failures are
// returned as errors and mapped to exit codes by Execute.
package cmd

// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build throwaway ipm
// repositories: descriptors, well-formed archives and deliberately broken
// ones. Helpers fail the test immediately on setup errors.
package testutil

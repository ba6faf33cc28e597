// SPDX-License-Identifier: MPL-2.0

// Package catalog assembles the ipm package index from a repository root.
//
// Build runs package and collection discovery, rejects identifiers used more
// than once across both, sorts the records and nests them under an
// ipm_package_data document. Render and WriteFile serialize the document with
// the stylesheet header installers expect; WriteFile replaces the output
// atomically so a failed build never leaves a partial catalog behind.
package catalog

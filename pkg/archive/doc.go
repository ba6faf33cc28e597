// SPDX-License-Identifier: MPL-2.0

// Package archive inspects and creates package archives.
//
// A package archive is a container file that must expand to exactly one
// top-level directory named after the package identifier. Three container
// formats are supported:
//   - [FormatZip]: ZIP (klauspost/compress/zip)
//   - [FormatTarZstd]: tar stream compressed with Zstandard
//   - [FormatTarLZ4]: tar stream compressed with LZ4
//
// The format is a per-deployment choice; the catalog pairs descriptors with
// archives by a single configured extension.
//
//   - [Inspect]: validate the layout invariant and report uncompressed size
//   - [Create]: pack a directory so that it satisfies the invariant
package archive

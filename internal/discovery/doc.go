// SPDX-License-Identifier: MPL-2.0

// Package discovery walks an ipm repository and yields validated package and
// collection records.
//
// Packages are found by pairing every descriptor (<id>.xml) under the
// packages root with the archive next to it (<id><ext>). Each pair is checked
// for identifier consistency and archive layout, then enriched with computed
// attributes (size, unzipped_size, checksum, subdir, url). Collections are
// descriptors under the collections root, emitted unmodified.
//
// Discovery is exposed as streams: lazy, finite and single-use sequences that
// stop at the first failure. Non-fatal findings are recorded in a Diagnostics
// sink supplied by the caller instead of being printed.
//
// File organization:
//   - diagnostic.go: Severity, DiagnosticCode and the Diagnostics sink
//   - errors.go: typed discovery errors
//   - stream.go: Options and the shared single-use stream guard
//   - packages.go: PackageRecord and PackageStream
//   - collections.go: CollectionRecord and CollectionStream
package discovery

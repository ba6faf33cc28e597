// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a catalog build when a repository's descriptors or
// archives change.
//
// Only files below packages/ and collections/ that can affect the catalog
// are considered: descriptors everywhere and archives under packages/. Bursts
// of events are coalesced into a single rebuild after a quiet period, and a
// rebuild is never started while the previous one is still running.
package watch

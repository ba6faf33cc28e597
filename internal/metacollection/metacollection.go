// SPDX-License-Identifier: MPL-2.0

// Package metacollection synthesizes collection descriptors whose items are
// every descriptor found under a part of the package tree.
package metacollection

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/HydroRoll-Team/ipm-server/pkg/descriptor"
	"github.com/HydroRoll-Team/ipm-server/pkg/fspath"
	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

// OutputDir is the directory, relative to the repository root, that receives
// generated collections.
const OutputDir = "collections"

// ErrInvalidDefinition is returned for a definition that cannot be generated.
var ErrInvalidDefinition = errors.New("invalid meta-collection definition")

// Definition describes one generated collection.
type Definition struct {
	// ID is the collection id and output file stem.
	ID types.Identifier
	// Name is the display name.
	Name string
	// Pattern is a doublestar glob, relative to the repository root, that
	// selects the descriptors to list.
	Pattern string
}

// DefaultDefinitions returns the collections every ipm repository publishes.
// "all-ipm" and "all" list the same items under two historical names.
func DefaultDefinitions() []Definition {
	return []Definition{
		{ID: "all-collections", Name: "All the collections", Pattern: "packages/collections/*.xml"},
		{ID: "all-ipm", Name: "All packages available on ipm-server gh-pages branch", Pattern: "packages/**/*.xml"},
		{ID: "all", Name: "All packages", Pattern: "packages/**/*.xml"},
	}
}

// Validate reports whether d can be generated.
func (d Definition) Validate() error {
	if err := d.ID.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if !doublestar.ValidatePattern(d.Pattern) {
		return fmt.Errorf("%w: %s: bad pattern %q", ErrInvalidDefinition, d.ID, d.Pattern)
	}
	return nil
}

// Generate writes <root>/collections/<id>.xml for every definition,
// replacing existing files, and returns the written paths. All definitions
// are validated before anything is written.
func Generate(root string, defs []Definition) ([]string, error) {
	seen := make(map[types.Identifier]bool, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: %s defined twice", ErrInvalidDefinition, d.ID)
		}
		seen[d.ID] = true
	}

	outDir := filepath.Join(root, OutputDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}

	written := make([]string, 0, len(defs))
	for _, d := range defs {
		items, err := Items(root, d.Pattern)
		if err != nil {
			return written, err
		}

		path := filepath.Join(outDir, string(d.ID)+".xml")
		if err := os.WriteFile(path, []byte(Document(d, items).String()+"\n"), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		slog.Debug("meta-collection written", "id", d.ID, "items", len(items), "path", path)
		written = append(written, path)
	}
	return written, nil
}

// Items returns the sorted, deduplicated file stems of the regular files
// under root matching pattern.
func Items(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %q: %w", pattern, err)
	}

	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, string(fspath.Stem(types.FilesystemPath(m))))
	}
	slices.Sort(items)
	return slices.Compact(items), nil
}

// Document builds the indented collection element listing items in order.
func Document(d Definition, items []string) *descriptor.Node {
	node := descriptor.NewNode("collection",
		descriptor.Attr{Name: descriptor.IDAttr, Value: string(d.ID)},
		descriptor.Attr{Name: "name", Value: d.Name},
	)
	for _, item := range items {
		node.Append(descriptor.NewNode("item", descriptor.Attr{Name: "ref", Value: item}))
	}
	descriptor.Indent(node)
	return node
}

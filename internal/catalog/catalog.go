// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/HydroRoll-Team/ipm-server/internal/discovery"
	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
	"github.com/HydroRoll-Team/ipm-server/pkg/checksum"
	"github.com/HydroRoll-Team/ipm-server/pkg/descriptor"
	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

const (
	// RootElement is the document element of a catalog.
	RootElement = "ipm_package_data"
	// PackagesElement groups package descriptors.
	PackagesElement = "packages"
	// CollectionsElement groups collection descriptors.
	CollectionsElement = "collections"

	// PackagesDir is the packages root, relative to the repository root.
	PackagesDir = "packages"
	// CollectionsDir is the collections root, relative to the repository root.
	CollectionsDir = "collections"
)

// ErrDuplicateIdentifier is the sentinel error wrapped by DuplicateIdentifierError.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

type (
	// Options configures Build.
	Options struct {
		// Root is the repository root holding packages/ and collections/.
		Root string
		// BaseURL prefixes synthesized package download URLs.
		BaseURL string
		// Format is the container format of package archives.
		Format archive.Format
		// Extension overrides the archive extension paired with descriptors.
		Extension string
		// Checksum selects the package checksum algorithm.
		Checksum checksum.Algorithm
		// Ignore holds doublestar patterns skipped during discovery.
		Ignore []string
		// Diagnostics receives non-fatal discovery findings. May be nil.
		Diagnostics *discovery.Diagnostics
	}

	// Result is a successfully built catalog.
	Result struct {
		// Document is the indented ipm_package_data element.
		Document *descriptor.Node
		// Packages are the discovered packages sorted by identifier.
		Packages []*discovery.PackageRecord
		// Collections are the discovered collections sorted by identifier.
		Collections []*discovery.CollectionRecord
	}

	// DuplicateIdentifierError is returned when two records share an id.
	// First and Second are the descriptor paths in discovery order.
	DuplicateIdentifierError struct {
		ID     types.Identifier
		First  string
		Second string
	}
)

// Error implements the error interface.
func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier %q: declared by both %s and %s", e.ID, e.First, e.Second)
}

// Unwrap returns ErrDuplicateIdentifier for errors.Is() compatibility.
func (e *DuplicateIdentifierError) Unwrap() error { return ErrDuplicateIdentifier }

// Build discovers every package and collection under opts.Root and assembles
// the catalog document. Any discovery or validation failure aborts the build.
func Build(ctx context.Context, opts Options) (*Result, error) {
	dopts := discovery.Options{
		BaseURL:     opts.BaseURL,
		Format:      opts.Format,
		Extension:   opts.Extension,
		Checksum:    opts.Checksum,
		Ignore:      opts.Ignore,
		Diagnostics: opts.Diagnostics,
	}

	var packages []*discovery.PackageRecord
	for rec, err := range discovery.NewPackages(filepath.Join(opts.Root, PackagesDir), dopts).All() {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		packages = append(packages, rec)
	}

	var collections []*discovery.CollectionRecord
	for rec, err := range discovery.NewCollections(filepath.Join(opts.Root, CollectionsDir), dopts).All() {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		collections = append(collections, rec)
	}

	if err := checkUnique(packages, collections); err != nil {
		return nil, err
	}

	slices.SortStableFunc(packages, func(a, b *discovery.PackageRecord) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(collections, func(a, b *discovery.CollectionRecord) int { return cmp.Compare(a.ID, b.ID) })

	slog.Debug("catalog assembled", "packages", len(packages), "collections", len(collections))

	return &Result{
		Document:    assemble(packages, collections),
		Packages:    packages,
		Collections: collections,
	}, nil
}

// checkUnique rejects an identifier used by more than one package or
// collection, checking packages before collections.
func checkUnique(packages []*discovery.PackageRecord, collections []*discovery.CollectionRecord) error {
	seen := make(map[types.Identifier]string, len(packages)+len(collections))
	claim := func(id types.Identifier, path string) error {
		if first, ok := seen[id]; ok {
			return &DuplicateIdentifierError{ID: id, First: first, Second: path}
		}
		seen[id] = path
		return nil
	}

	for _, p := range packages {
		if err := claim(p.ID, p.DescriptorPath); err != nil {
			return err
		}
	}
	for _, c := range collections {
		if err := claim(c.ID, c.Path); err != nil {
			return err
		}
	}
	return nil
}

// assemble nests copies of the record descriptors under the catalog root so
// indenting the document leaves the records untouched.
func assemble(packages []*discovery.PackageRecord, collections []*discovery.CollectionRecord) *descriptor.Node {
	pkgs := descriptor.NewNode(PackagesElement)
	for _, p := range packages {
		pkgs.Append(p.Descriptor.Clone())
	}
	cols := descriptor.NewNode(CollectionsElement)
	for _, c := range collections {
		cols.Append(c.Descriptor.Clone())
	}

	root := descriptor.NewNode(RootElement)
	root.Append(pkgs, cols)
	descriptor.Indent(root)
	return root
}

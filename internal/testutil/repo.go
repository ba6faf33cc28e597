// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
)

type (
	// Repo is a temporary ipm repository laid out as
	// <root>/packages/<subdir>/<id>.xml + <id>.ipk and
	// <root>/collections/<id>.xml.
	Repo struct {
		t    testing.TB
		Root string
	}

	// PackageSpec describes a fixture package.
	PackageSpec struct {
		// Subdir is the slash-separated directory under packages/.
		Subdir string
		// ID names the descriptor and archive files.
		ID string
		// DeclaredID overrides the id written into the descriptor.
		DeclaredID string
		// Attrs are extra descriptor attributes, written in the given order
		// after id.
		Attrs [][2]string
		// Files maps slash-separated paths inside the package directory to
		// their contents. Defaults to a single README.
		Files map[string]string
		// Format selects the archive format. Defaults to archive.DefaultFormat.
		Format archive.Format
	}
)

// NewRepo creates an empty repository under t.TempDir() with both a
// packages and a collections directory.
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	root := t.TempDir()
	MustMkdirAll(t, filepath.Join(root, "packages"))
	MustMkdirAll(t, filepath.Join(root, "collections"))
	return &Repo{t: t, Root: root}
}

// PackagesDir returns <root>/packages.
func (r *Repo) PackagesDir() string { return filepath.Join(r.Root, "packages") }

// CollectionsDir returns <root>/collections.
func (r *Repo) CollectionsDir() string { return filepath.Join(r.Root, "collections") }

// AddPackage writes a descriptor and a well-formed archive for spec and
// returns the archive path.
func (r *Repo) AddPackage(spec PackageSpec) string {
	r.t.Helper()

	dir := filepath.Join(r.PackagesDir(), filepath.FromSlash(spec.Subdir))
	declared := spec.DeclaredID
	if declared == "" {
		declared = spec.ID
	}
	MustWriteFile(r.t, filepath.Join(dir, spec.ID+".xml"), PackageDescriptor(declared, spec.Attrs...))

	files := spec.Files
	if files == nil {
		files = map[string]string{"README": spec.ID + " data\n"}
	}
	staging := filepath.Join(r.t.TempDir(), spec.ID)
	for name, content := range files {
		MustWriteFile(r.t, filepath.Join(staging, filepath.FromSlash(name)), content)
	}

	out, err := archive.Create(staging, archive.CreateOptions{
		Output: filepath.Join(dir, spec.ID+spec.Format.Extension()),
		Format: spec.Format,
	})
	if err != nil {
		r.t.Fatalf("failed to create archive for %s: %v", spec.ID, err)
	}
	return out
}

// AddDescriptor writes a package descriptor without an archive and returns
// its path.
func (r *Repo) AddDescriptor(subdir, id string, attrs ...[2]string) string {
	r.t.Helper()
	path := filepath.Join(r.PackagesDir(), filepath.FromSlash(subdir), id+".xml")
	MustWriteFile(r.t, path, PackageDescriptor(id, attrs...))
	return path
}

// AddRawZip writes a ZIP archive under packages/<subdir>/<name> whose entries
// are named exactly as given, for layout violation tests.
func (r *Repo) AddRawZip(subdir, name string, entries ...string) string {
	r.t.Helper()

	path := filepath.Join(r.PackagesDir(), filepath.FromSlash(subdir), name)
	MustMkdirAll(r.t, filepath.Dir(path))
	f, err := os.Create(path)
	if err != nil {
		r.t.Fatalf("failed to create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	for _, entry := range entries {
		w, createErr := zw.Create(entry)
		if createErr != nil {
			r.t.Fatalf("failed to add %s: %v", entry, createErr)
		}
		if !strings.HasSuffix(entry, "/") {
			if _, writeErr := w.Write([]byte(entry)); writeErr != nil {
				r.t.Fatalf("failed to write %s: %v", entry, writeErr)
			}
		}
	}
	if err := zw.Close(); err != nil {
		r.t.Fatalf("failed to finish %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		r.t.Fatalf("failed to close %s: %v", path, err)
	}
	return path
}

// AddCollection writes <root>/collections/<id>.xml listing refs.
func (r *Repo) AddCollection(id string, refs ...string) string {
	r.t.Helper()
	path := filepath.Join(r.CollectionsDir(), id+".xml")
	MustWriteFile(r.t, path, CollectionDescriptor(id, refs...))
	return path
}

// PackageDescriptor renders a package descriptor.
func PackageDescriptor(id string, attrs ...[2]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<package id=%q", id)
	for _, a := range attrs {
		fmt.Fprintf(&sb, " %s=%q", a[0], a[1])
	}
	sb.WriteString(" />\n")
	return sb.String()
}

// CollectionDescriptor renders a collection descriptor listing refs.
func CollectionDescriptor(id string, refs ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<collection id=%q name=%q>\n", id, id)
	for _, ref := range refs {
		fmt.Fprintf(&sb, "  <item ref=%q />\n", ref)
	}
	sb.WriteString("</collection>\n")
	return sb.String()
}

// SPDX-License-Identifier: MPL-2.0

package metacollection

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/HydroRoll-Team/ipm-server/internal/testutil"
)

func TestGenerate_EndToEnd(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.AddPackage(testutil.PackageSpec{Subdir: "corpora", ID: "coc"})

	paths, err := Generate(repo.Root, DefaultDefinitions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("wrote %d files, want 3", len(paths))
	}

	tests := []struct {
		file string
		want string
	}{
		{
			file: "all.xml",
			want: "<collection id=\"all\" name=\"All packages\">\n  <item ref=\"coc\" />\n</collection>\n",
		},
		{
			file: "all-ipm.xml",
			want: "<collection id=\"all-ipm\" name=\"All packages available on ipm-server gh-pages branch\">\n  <item ref=\"coc\" />\n</collection>\n",
		},
		{
			file: "all-collections.xml",
			want: "<collection id=\"all-collections\" name=\"All the collections\" />\n",
		},
	}
	for _, tt := range tests {
		got := testutil.MustReadFile(t, filepath.Join(repo.CollectionsDir(), tt.file))
		if got != tt.want {
			t.Errorf("%s =\n%s\nwant\n%s", tt.file, got, tt.want)
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.AddPackage(testutil.PackageSpec{Subdir: "corpora", ID: "coc"})
	repo.AddPackage(testutil.PackageSpec{Subdir: "rules", ID: "dnd"})
	testutil.MustWriteFile(t, filepath.Join(repo.PackagesDir(), "collections", "starter.xml"), testutil.CollectionDescriptor("starter", "coc"))

	read := func() map[string]string {
		out := map[string]string{}
		for _, d := range DefaultDefinitions() {
			out[string(d.ID)] = testutil.MustReadFile(t, filepath.Join(repo.CollectionsDir(), string(d.ID)+".xml"))
		}
		return out
	}

	if _, err := Generate(repo.Root, DefaultDefinitions()); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	first := read()
	if _, err := Generate(repo.Root, DefaultDefinitions()); err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	second := read()

	for id, content := range first {
		if second[id] != content {
			t.Errorf("%s changed between runs:\n%s\n---\n%s", id, content, second[id])
		}
	}
}

func TestGenerate_CreatesOutputDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, "packages", "x", "a.xml"), testutil.PackageDescriptor("a"))

	if _, err := Generate(root, []Definition{{ID: "all", Name: "All", Pattern: "packages/**/*.xml"}}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	testutil.MustReadFile(t, filepath.Join(root, OutputDir, "all.xml"))
}

func TestGenerate_InvalidDefinitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		defs []Definition
	}{
		{name: "empty id", defs: []Definition{{ID: "", Pattern: "*.xml"}}},
		{name: "path id", defs: []Definition{{ID: "../evil", Pattern: "*.xml"}}},
		{name: "bad pattern", defs: []Definition{{ID: "all", Pattern: "[oops"}}},
		{name: "duplicate id", defs: []Definition{{ID: "all", Pattern: "*.xml"}, {ID: "all", Pattern: "**/*.xml"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			if _, err := Generate(root, tt.defs); !errors.Is(err, ErrInvalidDefinition) {
				t.Fatalf("Generate() error = %v, want ErrInvalidDefinition", err)
			}
			testutil.AssertNotExist(t, filepath.Join(root, OutputDir))
		})
	}
}

func TestItems_SortedAndDeduplicated(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, p := range []string{"packages/b/zeta.xml", "packages/a/alpha.xml", "packages/c/alpha.xml", "packages/a/alpha.ipk", "packages/top.xml"} {
		testutil.MustWriteFile(t, filepath.Join(root, filepath.FromSlash(p)), "x")
	}

	items, err := Items(root, "packages/**/*.xml")
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if want := []string{"alpha", "top", "zeta"}; !slices.Equal(items, want) {
		t.Errorf("Items() = %v, want %v", items, want)
	}
}

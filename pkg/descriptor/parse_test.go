// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_PreservesStructure(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0" encoding="utf-8"?>
<!-- collection of rule books -->
<collection id="rules" name="Rule &amp; lore" xml:lang="en">
  <item ref="dnd" />
  <item ref="coc"/>
  <?keep me?>
  <note>Tom &lt;3</note>
</collection>
`
	n, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if n.Name != "collection" || n.ID() != "rules" {
		t.Fatalf("root = %s id=%q, want collection id=rules", n.Name, n.ID())
	}
	if name, _ := n.Attr("name"); name != "Rule & lore" {
		t.Errorf("name = %q, want decoded entity", name)
	}
	if lang, ok := n.Attr("xml:lang"); !ok || lang != "en" {
		t.Errorf("xml:lang = %q, %v; want en, true", lang, ok)
	}

	if len(n.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(n.Children))
	}
	// Document order is kept.
	for i, want := range []string{"dnd", "coc"} {
		if ref, _ := n.Children[i].Attr("ref"); ref != want {
			t.Errorf("child %d ref = %q, want %q", i, ref, want)
		}
	}
	if note := n.Children[2]; note.Text != "Tom <3" {
		t.Errorf("note text = %q, want %q", note.Text, "Tom <3")
	}
	if n.Text != "\n  " {
		t.Errorf("root text = %q", n.Text)
	}
	if tail := n.Children[1].Tail; tail != "\n  \n  " {
		t.Errorf("tail around dropped instruction = %q", tail)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "only prolog", doc: `<?xml version="1.0"?>`},
		{name: "unclosed", doc: `<package id="coc">`},
		{name: "mismatched end", doc: `<package id="coc"></collection>`},
		{name: "two roots", doc: `<a/><b/>`},
		{name: "text after root", doc: `<a/>trailing`},
		{name: "bad attribute", doc: `<package id=coc/>`},
		{name: "unknown entity", doc: `<package id="&bogus;"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrParse) {
				t.Fatalf("Parse(%q) error = %v, want ErrParse", tt.doc, err)
			}
		})
	}
}

func TestLoad_AnnotatesPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "coc.xml")
	if err := os.WriteFile(bad, []byte(`<package id="coc">`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := Load(bad)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if parseErr.Path != bad {
		t.Errorf("ParseError.Path = %q, want %q", parseErr.Path, bad)
	}
	if !strings.Contains(err.Error(), bad) {
		t.Errorf("error message %q does not name the file", err.Error())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.xml"))
	if !errors.Is(err, ErrParse) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want ErrParse wrapping os.ErrNotExist", err)
	}
}

func TestLoad_Valid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "coc.xml")
	if err := os.WriteFile(path, []byte(`<package id="coc" name="Call of Cthulhu" />`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	n, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if n.ID() != "coc" {
		t.Errorf("ID() = %q, want coc", n.ID())
	}
}

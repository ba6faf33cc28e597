// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePackageDir(t *testing.T, parent, id string) string {
	t.Helper()

	dir := filepath.Join(parent, id)
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	files := map[string]string{
		"README":        "coc rules",
		"data/rules.md": "# Call of Cthulhu\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}
	return dir
}

func TestCreate_RoundTripsThroughInspect(t *testing.T) {
	t.Parallel()

	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			parent := t.TempDir()
			src := writePackageDir(t, parent, "coc")

			path, err := Create(src, CreateOptions{Format: format})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if want := filepath.Join(parent, "coc"+format.Extension()); path != want {
				t.Errorf("Create() path = %s, want %s", path, want)
			}

			info, err := Inspect(path, "coc", format)
			if err != nil {
				t.Fatalf("Inspect() error = %v", err)
			}
			if want := int64(len("coc rules") + len("# Call of Cthulhu\n")); info.UnzippedSize != want {
				t.Errorf("UnzippedSize = %d, want %d", info.UnzippedSize, want)
			}
			// coc/, coc/README, coc/data/, coc/data/rules.md
			if info.Entries != 4 {
				t.Errorf("Entries = %d, want 4", info.Entries)
			}
		})
	}
}

func TestCreate_ExplicitOutputAndExtension(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	src := writePackageDir(t, parent, "coc")

	path, err := Create(src, CreateOptions{Extension: ".zip"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Base(path) != "coc.zip" {
		t.Errorf("Create() path = %s, want coc.zip", path)
	}

	out := filepath.Join(parent, "dist", "corpora", "coc.ipk")
	path, err = Create(src, CreateOptions{Output: out})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if path != out {
		t.Errorf("Create() path = %s, want %s", path, out)
	}
}

func TestCreate_RejectsOutputInsideSource(t *testing.T) {
	t.Parallel()

	src := writePackageDir(t, t.TempDir(), "coc")
	out := filepath.Join(src, "coc.ipk")

	if _, err := Create(src, CreateOptions{Output: out}); err == nil {
		t.Fatal("Create() error = nil, want error for output inside source")
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output should not exist, stat error = %v", err)
	}
}

func TestCreate_NotADirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "coc")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Create(file, CreateOptions{}); err == nil {
		t.Fatal("Create() error = nil, want error for non-directory source")
	}
}

func TestCreate_InvalidFormat(t *testing.T) {
	t.Parallel()

	src := writePackageDir(t, t.TempDir(), "coc")
	if _, err := Create(src, CreateOptions{Format: "7z"}); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Create() error = %v, want ErrInvalidFormat", err)
	}
}

func TestFormat_Extension(t *testing.T) {
	t.Parallel()

	tests := map[Format]string{
		"":            ".ipk",
		FormatZip:     ".ipk",
		FormatTarZstd: ".tar.zst",
		FormatTarLZ4:  ".tar.lz4",
	}
	for format, want := range tests {
		if got := format.Extension(); got != want {
			t.Errorf("Format(%q).Extension() = %s, want %s", format, got, want)
		}
	}
}

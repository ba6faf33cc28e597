// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/HydroRoll-Team/ipm-server/internal/testutil"
	"github.com/HydroRoll-Team/ipm-server/pkg/descriptor"
)

func sampleDocument() *descriptor.Node {
	root := descriptor.NewNode(RootElement)
	root.Append(descriptor.NewNode(PackagesElement), descriptor.NewNode(CollectionsElement))
	descriptor.Indent(root)
	return root
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stylesheet string
		want       string
	}{
		{
			name:       "with stylesheet",
			stylesheet: DefaultStylesheet,
			want: "<?xml version=\"1.0\"?>\n" +
				"<?xml-stylesheet href=\"index.xsl\" type=\"text/xsl\"?>\n" +
				"<ipm_package_data>\n  <packages />\n  <collections />\n</ipm_package_data>\n",
		},
		{
			name: "without stylesheet",
			want: "<?xml version=\"1.0\"?>\n" +
				"<ipm_package_data>\n  <packages />\n  <collections />\n</ipm_package_data>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Render(&buf, sampleDocument(), tt.stylesheet); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteFile_ReplacesExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "index.xml")
	testutil.MustWriteFile(t, out, "stale")

	if err := WriteFile(out, sampleDocument(), DefaultStylesheet); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if got := testutil.MustReadFile(t, out); got == "stale" {
		t.Error("WriteFile() did not replace the existing catalog")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only index.xml (temp file leaked)", len(entries))
	}
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "missing", "index.xml")
	if err := WriteFile(out, sampleDocument(), DefaultStylesheet); err == nil {
		t.Fatal("WriteFile() error = nil, want error for missing directory")
	}
	testutil.AssertNotExist(t, out)
}

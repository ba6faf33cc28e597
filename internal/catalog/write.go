// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/HydroRoll-Team/ipm-server/pkg/descriptor"
)

// DefaultStylesheet is the XSL stylesheet referenced by published catalogs.
const DefaultStylesheet = "index.xsl"

// Render writes the XML declaration, a stylesheet processing instruction
// (omitted when stylesheet is empty), doc and a trailing newline.
func Render(w io.Writer, doc *descriptor.Node, stylesheet string) error {
	bw := bufio.NewWriter(w)
	if _, err := io.WriteString(bw, "<?xml version=\"1.0\"?>\n"); err != nil {
		return err
	}
	if stylesheet != "" {
		if _, err := fmt.Fprintf(bw, "<?xml-stylesheet href=\"%s\" type=\"text/xsl\"?>\n", stylesheet); err != nil {
			return err
		}
	}
	if err := descriptor.Encode(bw, doc); err != nil {
		return err
	}
	if _, err := io.WriteString(bw, "\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile renders doc into path through a temporary file in the same
// directory that is renamed over path once fully written. path is left
// untouched when any step fails.
func WriteFile(path string, doc *descriptor.Node, stylesheet string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name()) // Best-effort cleanup of partial output
		}
	}()

	if err := Render(tmp, doc, stylesheet); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting catalog permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	renamed = true
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

// CreateOptions configures Create.
type CreateOptions struct {
	// Output is the archive path. Defaults to "<parent>/<id><ext>" next to
	// the source directory.
	Output string
	// Format is the container format. Defaults to DefaultFormat.
	Format Format
	// Extension overrides the default extension of Format when Output is empty.
	Extension string
}

// Create packs srcDir into an archive whose single top-level directory is
// named after srcDir's base name, which becomes the package identifier.
// Returns the absolute path of the created archive. A partially written
// archive is removed on failure.
func Create(srcDir string, opts CreateOptions) (archivePath string, err error) {
	if err = opts.Format.Validate(); err != nil {
		return "", err
	}
	format := opts.Format.orDefault()

	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source directory: %w", err)
	}
	info, err := os.Stat(absSrc)
	if err != nil {
		return "", fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", absSrc)
	}

	id := filepath.Base(absSrc)
	if idErr := types.Identifier(id).Validate(); idErr != nil {
		return "", idErr
	}

	outputPath := opts.Output
	if outputPath == "" {
		ext := opts.Extension
		if ext == "" {
			ext = format.Extension()
		}
		outputPath = filepath.Join(filepath.Dir(absSrc), id+ext)
	}
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	if strings.HasPrefix(absOutputPath, absSrc+string(filepath.Separator)) {
		return "", fmt.Errorf("output %s must not be inside %s", absOutputPath, absSrc)
	}
	if err = os.MkdirAll(filepath.Dir(absOutputPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(absOutputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(absOutputPath) // Best-effort cleanup of partial output
		}
	}()

	switch format {
	case FormatZip:
		err = writeZip(out, absSrc, id)
	default:
		err = writeTar(out, absSrc, id, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", absSrc, err)
	}

	return absOutputPath, nil
}

// walkEntries visits srcDir and calls fn with the archive name of every
// entry, rooted at id. Directory names carry a trailing slash.
func walkEntries(srcDir, id string, fn func(path, name string, d fs.DirEntry) error) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}

		name := filepath.ToSlash(filepath.Join(id, relPath))
		if d.IsDir() {
			name += "/"
		} else if !d.Type().IsRegular() {
			// Symlinks and devices are not portable across installers.
			return nil
		}
		return fn(path, name, d)
	})
}

func writeZip(w io.Writer, srcDir, id string) (err error) {
	zw := zip.NewWriter(w)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return walkEntries(srcDir, id, func(path, name string, d fs.DirEntry) error {
		if d.IsDir() {
			if _, createErr := zw.Create(name); createErr != nil {
				return fmt.Errorf("failed to create directory entry: %w", createErr)
			}
			return nil
		}

		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}
		header, headerErr := zip.FileInfoHeader(fileInfo)
		if headerErr != nil {
			return fmt.Errorf("failed to create file header: %w", headerErr)
		}
		header.Name = name
		header.Method = zip.Deflate

		entry, createErr := zw.CreateHeader(header)
		if createErr != nil {
			return fmt.Errorf("failed to create ZIP entry: %w", createErr)
		}
		return copyFile(entry, path)
	})
}

func writeTar(w io.Writer, srcDir, id string, format Format) (err error) {
	var compressed io.WriteCloser
	switch format {
	case FormatTarZstd:
		enc, encErr := zstd.NewWriter(w)
		if encErr != nil {
			return fmt.Errorf("zstd: %w", encErr)
		}
		compressed = enc
	case FormatTarLZ4:
		compressed = lz4.NewWriter(w)
	default:
		return &InvalidFormatError{Value: format}
	}
	defer func() {
		if closeErr := compressed.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(compressed)
	defer func() {
		if closeErr := tw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return walkEntries(srcDir, id, func(path, name string, d fs.DirEntry) error {
		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}
		header, headerErr := tar.FileInfoHeader(fileInfo, "")
		if headerErr != nil {
			return fmt.Errorf("failed to create tar header: %w", headerErr)
		}
		header.Name = name
		if writeErr := tw.WriteHeader(header); writeErr != nil {
			return fmt.Errorf("failed to write tar header: %w", writeErr)
		}
		if d.IsDir() {
			return nil
		}
		return copyFile(tw, path)
	})
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // read-only handle

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	return nil
}

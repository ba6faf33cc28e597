// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Info summarizes an archive that passed inspection.
type Info struct {
	// Entries is the number of entries (files and directories) in the archive.
	Entries int
	// UnzippedSize is the sum of the declared uncompressed sizes of all entries.
	UnzippedSize int64
}

// Inspect opens the archive at path read-only, checks that every entry is
// named id or lives under "id/", and sums the declared entry sizes.
func Inspect(path, id string, format Format) (Info, error) {
	if err := format.Validate(); err != nil {
		return Info{}, err
	}

	format = format.orDefault()
	check := layoutChecker(path, id)

	switch format {
	case FormatZip:
		return inspectZip(path, check)
	default:
		return inspectTar(path, format, check)
	}
}

// layoutChecker returns a function that validates one entry name.
func layoutChecker(path, id string) func(name string) error {
	prefix := id + "/"
	return func(name string) error {
		if name != id && !strings.HasPrefix(name, prefix) {
			return &LayoutError{Path: path, ID: id, Entry: name}
		}
		for _, elem := range strings.Split(name, "/") {
			if elem == ".." {
				return &LayoutError{Path: path, ID: id, Entry: name}
			}
		}
		return nil
	}
}

func inspectZip(path string, check func(string) error) (info Info, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Info{}, &CorruptArchiveError{Path: path, Format: FormatZip, Cause: err}
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = &CorruptArchiveError{Path: path, Format: FormatZip, Cause: closeErr}
		}
	}()

	for _, file := range zr.File {
		if checkErr := check(file.Name); checkErr != nil {
			return Info{}, checkErr
		}
		info.Entries++
		info.UnzippedSize += int64(file.UncompressedSize64) //nolint:gosec // sizes beyond int64 are not representable on disk
	}

	return info, nil
}

func inspectTar(path string, format Format, check func(string) error) (info Info, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, &CorruptArchiveError{Path: path, Format: format, Cause: err}
	}
	defer func() {
		// Read-only file handle; close errors are exotic (NFS edge cases).
		_ = f.Close()
	}()

	stream, closeStream, err := decompressor(f, format)
	if err != nil {
		return Info{}, &CorruptArchiveError{Path: path, Format: format, Cause: err}
	}
	defer closeStream()

	tr := tar.NewReader(stream)
	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return Info{}, &CorruptArchiveError{Path: path, Format: format, Cause: nextErr}
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		if checkErr := check(hdr.Name); checkErr != nil {
			return Info{}, checkErr
		}
		info.Entries++
		info.UnzippedSize += hdr.Size
	}

	return info, nil
}

// decompressor wraps r with the decoder for a tar-based format. The returned
// close function releases decoder resources and is safe to call once.
func decompressor(r io.Reader, format Format) (io.Reader, func(), error) {
	switch format {
	case FormatTarZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case FormatTarLZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return nil, nil, &InvalidFormatError{Value: format}
	}
}

// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
	"github.com/HydroRoll-Team/ipm-server/pkg/checksum"
	"github.com/HydroRoll-Team/ipm-server/pkg/descriptor"
	"github.com/HydroRoll-Team/ipm-server/pkg/fspath"
	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

// Attributes computed by package discovery.
const (
	AttrUnzippedSize = "unzipped_size"
	AttrSize         = "size"
	AttrChecksum     = "checksum"
	AttrSubdir       = "subdir"
	AttrURL          = "url"
)

type (
	// PackageRecord is one validated (descriptor, archive) pair.
	PackageRecord struct {
		// ID equals the descriptor file stem, the declared id and the
		// archive's top-level directory name.
		ID types.Identifier
		// Subdir holds the directory names between the packages root and the
		// package directory. Empty for packages placed directly in the root.
		Subdir []string
		// Descriptor is the parsed descriptor carrying the computed attributes.
		Descriptor *descriptor.Node

		DescriptorPath string
		ArchivePath    string
		Size           int64
		UnzippedSize   int64
		Checksum       string
		URL            string
	}

	// PackageStream yields the packages found under a packages root.
	PackageStream struct {
		root string
		opts Options
		once once
	}
)

// NewPackages returns a stream over the packages below root. Nothing is read
// until the stream is iterated.
func NewPackages(root string, opts Options) *PackageStream {
	return &PackageStream{root: root, opts: opts}
}

// All returns the single-use sequence of package records. Iteration stops
// after the first error; later iterations yield ErrStreamConsumed. Records
// are produced in walk order.
func (s *PackageStream) All() iter.Seq2[*PackageRecord, error] {
	return func(yield func(*PackageRecord, error) bool) {
		if !s.once.claim() {
			yield(nil, ErrStreamConsumed)
			return
		}

		opts, err := s.opts.withDefaults()
		if err != nil {
			yield(nil, err)
			return
		}

		info, err := os.Stat(s.root)
		if errors.Is(err, os.ErrNotExist) {
			opts.Diagnostics.Warn(CodePackagesRootMissing, s.root, "packages root does not exist; no packages discovered")
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("packages root: %w", err))
			return
		}
		if !info.IsDir() {
			yield(nil, fmt.Errorf("packages root %s is not a directory", s.root))
			return
		}

		walkErr := walkFiles(s.root, opts.Ignore, func(path string) error {
			name := filepath.Base(path)
			switch {
			case strings.HasSuffix(name, DescriptorExt):
				rec, recErr := loadPackage(s.root, path, opts)
				if recErr != nil {
					return recErr
				}
				if !yield(rec, nil) {
					return errStopWalk
				}
			case strings.HasSuffix(name, opts.Extension):
				checkArchiveHasDescriptor(path, opts)
			}
			return nil
		})
		if walkErr != nil {
			yield(nil, walkErr)
		}
	}
}

// checkArchiveHasDescriptor warns about archives nobody describes. Such
// archives are never published in the catalog.
func checkArchiveHasDescriptor(archivePath string, opts Options) {
	stem := strings.TrimSuffix(filepath.Base(archivePath), opts.Extension)
	desc := filepath.Join(filepath.Dir(archivePath), stem+DescriptorExt)
	if _, err := os.Stat(desc); errors.Is(err, os.ErrNotExist) {
		opts.Diagnostics.Add(Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeArchiveWithoutDescriptor,
			Message:  fmt.Sprintf("archive has no descriptor %s and is not published", filepath.Base(desc)),
			Path:     archivePath,
		})
	}
}

func loadPackage(root, descPath string, opts Options) (*PackageRecord, error) {
	id := fspath.Stem(types.FilesystemPath(descPath))
	dir := filepath.Dir(descPath)
	archiveName := string(id) + opts.Extension
	archivePath := filepath.Join(dir, archiveName)

	archiveInfo, err := os.Stat(archivePath)
	if errors.Is(err, os.ErrNotExist) || (err == nil && archiveInfo.IsDir()) {
		return nil, &MissingArchiveError{Descriptor: descPath, Archive: archivePath}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", archivePath, err)
	}

	node, err := descriptor.Load(descPath)
	if err != nil {
		return nil, err
	}
	if declared := node.ID(); declared != string(id) {
		return nil, &IdentifierMismatchError{Path: descPath, Expected: string(id), Declared: declared}
	}

	contents, err := archive.Inspect(archivePath, string(id), opts.Format)
	if err != nil {
		return nil, err
	}
	sum, err := checksum.File(archivePath, opts.Checksum)
	if err != nil {
		return nil, err
	}
	subdir, err := fspath.RelSegments(types.FilesystemPath(root), types.FilesystemPath(dir))
	if err != nil {
		return nil, err
	}

	rec := &PackageRecord{
		ID:             id,
		Subdir:         subdir,
		Descriptor:     node,
		DescriptorPath: descPath,
		ArchivePath:    archivePath,
		Size:           archiveInfo.Size(),
		UnzippedSize:   contents.UnzippedSize,
		Checksum:       sum,
	}

	node.SetAttr(AttrUnzippedSize, strconv.FormatInt(rec.UnzippedSize, 10))
	node.SetAttr(AttrSize, strconv.FormatInt(rec.Size, 10))
	node.SetAttr(AttrChecksum, rec.Checksum)
	node.SetAttr(AttrSubdir, rec.SubdirPath())

	if declared, _ := node.Attr(AttrURL); declared != "" {
		rec.URL = declared
	} else {
		rec.URL = DownloadURL(opts.BaseURL, subdir, archiveName)
		node.SetAttr(AttrURL, rec.URL)
	}

	slog.Debug("package discovered", "id", id, "subdir", rec.SubdirPath(), "size", rec.Size, "unzipped_size", rec.UnzippedSize)
	return rec, nil
}

// SubdirPath returns Subdir joined with "/".
func (r *PackageRecord) SubdirPath() string {
	return strings.Join(r.Subdir, "/")
}

// DownloadURL returns "{base}/{subdir}/{file}". Trailing slashes of base are
// trimmed; an empty base or subdir contributes no segment.
func DownloadURL(base string, subdir []string, file string) string {
	parts := make([]string, 0, 2+len(subdir))
	if base = strings.TrimRight(base, "/"); base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, subdir...)
	parts = append(parts, file)
	return strings.Join(parts, "/")
}

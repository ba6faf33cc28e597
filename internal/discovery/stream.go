// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
	"github.com/HydroRoll-Team/ipm-server/pkg/checksum"
)

// DescriptorExt is the file extension of package and collection descriptors.
const DescriptorExt = ".xml"

// ErrInvalidOptions is returned when discovery options cannot be used.
var ErrInvalidOptions = errors.New("invalid discovery options")

// errStopWalk ends a walk early once the consumer stops iterating.
var errStopWalk = errors.New("stop walk")

// DefaultIgnore lists the version-control metadata directories skipped
// during discovery.
func DefaultIgnore() []string {
	return []string{".git", ".svn", ".hg", "CVS"}
}

type (
	// Options configures package and collection discovery.
	Options struct {
		// BaseURL prefixes synthesized download URLs.
		BaseURL string
		// Format is the container format of package archives.
		Format archive.Format
		// Extension is the archive file extension paired with descriptors.
		// Defaults to Format.Extension().
		Extension string
		// Checksum selects the digest recorded in the checksum attribute.
		Checksum checksum.Algorithm
		// Ignore holds doublestar patterns matched against entry names and
		// root-relative slash paths. Matching directories are skipped.
		// Defaults to DefaultIgnore().
		Ignore []string
		// Diagnostics receives non-fatal findings. May be nil.
		Diagnostics *Diagnostics
	}

	// once guards a stream against a second iteration.
	once struct {
		used atomic.Bool
	}
)

func (o *once) claim() bool { return o.used.CompareAndSwap(false, true) }

// withDefaults validates o and fills in defaults.
func (o Options) withDefaults() (Options, error) {
	if err := o.Format.Validate(); err != nil {
		return o, err
	}
	if err := o.Checksum.Validate(); err != nil {
		return o, err
	}
	if o.Extension == "" {
		o.Extension = o.Format.Extension()
	}
	if !strings.HasPrefix(o.Extension, ".") || o.Extension == DescriptorExt {
		return o, fmt.Errorf("%w: archive extension %q", ErrInvalidOptions, o.Extension)
	}
	if o.Ignore == nil {
		o.Ignore = DefaultIgnore()
	}
	for _, pattern := range o.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return o, fmt.Errorf("%w: ignore pattern %q", ErrInvalidOptions, pattern)
		}
	}
	return o, nil
}

// ignored reports whether an entry matches one of the ignore patterns.
func ignored(patterns []string, rel, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// walkFiles calls fn for every regular file below root in lexical order,
// skipping ignored entries. Returning errStopWalk from fn ends the walk
// without error.
func walkFiles(root string, patterns []string, fn func(path string) error) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if ignored(patterns, filepath.ToSlash(rel), d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fn(path)
	})
	if errors.Is(err, errStopWalk) {
		return nil
	}
	return err
}

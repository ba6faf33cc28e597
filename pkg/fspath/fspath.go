// SPDX-License-Identifier: MPL-2.0

// Package fspath derives catalog values from typed filesystem paths: the
// identifier stem of a descriptor file and the subdirectory segments between
// a packages root and a package directory.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

// Stem returns the file name without its final extension, e.g.
// "packages/corpora/coc.xml" -> "coc".
func Stem(p types.FilesystemPath) types.Identifier {
	base := filepath.Base(string(p))
	return types.Identifier(strings.TrimSuffix(base, filepath.Ext(base)))
}

// RelSegments returns the directory names between root and dir. It returns
// an empty slice when dir is root and an error when dir is not inside root.
func RelSegments(root, dir types.FilesystemPath) ([]string, error) {
	rel, err := filepath.Rel(string(root), string(dir))
	if err != nil {
		return nil, fmt.Errorf("relating %s to %s: %w", dir, root, err)
	}
	if rel == "." {
		return []string{}, nil
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, fmt.Errorf("%s is outside %s", dir, root)
	}
	return strings.Split(rel, "/"), nil
}

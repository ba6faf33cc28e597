// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HydroRoll-Team/ipm-server/pkg/descriptor"
	"github.com/HydroRoll-Team/ipm-server/pkg/types"
)

type (
	// CollectionRecord is one collection descriptor, kept verbatim.
	CollectionRecord struct {
		// ID is the id declared by the descriptor.
		ID         types.Identifier
		Path       string
		Descriptor *descriptor.Node
	}

	// CollectionStream yields the collections found under a collections root.
	CollectionStream struct {
		root string
		opts Options
		once once
	}
)

// NewCollections returns a stream over the collection descriptors below
// root. Only Ignore and Diagnostics of opts are used.
func NewCollections(root string, opts Options) *CollectionStream {
	return &CollectionStream{root: root, opts: opts}
}

// All returns the single-use sequence of collection records, with the same
// contract as PackageStream.All.
func (s *CollectionStream) All() iter.Seq2[*CollectionRecord, error] {
	return func(yield func(*CollectionRecord, error) bool) {
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
			opts.Diagnostics.Warn(CodeCollectionsRootMissing, s.root, "collections root does not exist; no collections discovered")
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("collections root: %w", err))
			return
		}
		if !info.IsDir() {
			yield(nil, fmt.Errorf("collections root %s is not a directory", s.root))
			return
		}

		walkErr := walkFiles(s.root, opts.Ignore, func(path string) error {
			if !strings.HasSuffix(filepath.Base(path), DescriptorExt) {
				return nil
			}
			node, loadErr := descriptor.Load(path)
			if loadErr != nil {
				return loadErr
			}
			slog.Debug("collection discovered", "id", node.ID(), "path", path)
			if !yield(&CollectionRecord{ID: types.Identifier(node.ID()), Path: path, Descriptor: node}, nil) {
				return errStopWalk
			}
			return nil
		})
		if walkErr != nil {
			yield(nil, walkErr)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/HydroRoll-Team/ipm-server/internal/catalog"
	"github.com/HydroRoll-Team/ipm-server/internal/discovery"
	"github.com/HydroRoll-Team/ipm-server/pkg/archive"
)

const defaultDebounce = 300 * time.Millisecond

var (
	// ErrAlreadyRunning is returned when Run is called a second time.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")

	// editorNoise matches files editors and file managers write next to the
	// real ones.
	editorNoise = []string{"*.swp", "*.swo", "*~", ".#*", ".DS_Store"}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the repository root containing packages/ and collections/.
		Root string
		// Extension is the archive extension. Empty means archive.DefaultExtension.
		Extension string
		// Output is the catalog file. Writes to it, and to its temporary
		// siblings, never trigger a rebuild.
		Output string
		// Ignore holds doublestar patterns matched against entry names and
		// root-relative paths, as in discovery.
		Ignore []string
		// Debounce is the quiet period before Rebuild fires. Zero or negative
		// means defaultDebounce.
		Debounce time.Duration
		// Rebuild receives the sorted root-relative paths that changed.
		Rebuild func(ctx context.Context, changed []string) error
		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Watcher monitors a repository and fires a debounced rebuild. Run must be
	// called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		log      *slog.Logger
		root     string
		output   string
		ext      string
		ignore   []string
		debounce time.Duration
		started  atomic.Bool
	}
)

// New validates cfg and registers the repository directories with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, errors.New("watch: repository root is required")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", root)
	}

	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pattern)
		}
	}

	w := &Watcher{
		cfg:      cfg,
		log:      cfg.Logger,
		root:     root,
		ext:      cfg.Extension,
		ignore:   slices.Concat(discovery.DefaultIgnore(), editorNoise, cfg.Ignore),
		debounce: cfg.Debounce,
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	w.log = w.log.With("component", "watch")
	if w.ext == "" {
		w.ext = archive.DefaultExtension
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if cfg.Output != "" {
		if w.output, err = filepath.Abs(cfg.Output); err != nil {
			return nil, fmt.Errorf("watch: resolve output: %w", err)
		}
	}

	if w.fsw, err = fsnotify.NewWatcher(); err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := w.addTree(); err != nil {
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.log.Warn("close after init failure", "error", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation and an error when the watcher can no longer deliver events.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			w.log.Debug("rebuild still running, deferring")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || w.cfg.Rebuild == nil {
			return
		}

		w.log.Info("change detected, rebuilding", "files", len(changed))
		if err := w.cfg.Rebuild(ctx, changed); err != nil {
			w.log.Error("rebuild failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.log.Warn("close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			if evt.Op == fsnotify.Chmod {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			rel, ok := w.relevant(evt.Name)
			if !ok {
				continue
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.log.Warn("fsnotify error", "error", err)
		}
	}
}

// relevant reports whether a change to path can alter the catalog, and
// returns it relative to the root.
func (w *Watcher) relevant(path string) (string, bool) {
	if w.output != "" {
		if path == w.output {
			return "", false
		}
		tmpPrefix := "." + filepath.Base(w.output) + ".tmp-"
		if filepath.Dir(path) == filepath.Dir(w.output) && strings.HasPrefix(filepath.Base(path), tmpPrefix) {
			return "", false
		}
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if w.ignored(rel) {
		return "", false
	}

	top, _, _ := strings.Cut(rel, "/")
	switch top {
	case catalog.PackagesDir:
		return rel, strings.HasSuffix(rel, discovery.DescriptorExt) || strings.HasSuffix(rel, w.ext)
	case catalog.CollectionsDir:
		return rel, strings.HasSuffix(rel, discovery.DescriptorExt)
	default:
		return "", false
	}
}

// ignored matches every path segment as well as the whole relative path, so
// files inside an ignored directory are ignored too.
func (w *Watcher) ignored(rel string) bool {
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		for seg := range strings.SplitSeq(rel, "/") {
			if ok, _ := doublestar.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}

// addTree watches the root itself, so packages/ and collections/ are picked
// up if created later, and every non-ignored directory below them.
func (w *Watcher) addTree() error {
	if err := w.fsw.Add(w.root); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.root, err)
	}
	for _, dir := range []string{catalog.PackagesDir, catalog.CollectionsDir} {
		start := filepath.Join(w.root, dir)
		if _, err := os.Stat(start); errors.Is(err, os.ErrNotExist) {
			continue
		}
		err := filepath.WalkDir(start, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				w.log.Warn("skipping inaccessible path", "path", path, "error", walkErr)
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if rel, err := filepath.Rel(w.root, path); err == nil && w.ignored(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watch: add %s: %w", path, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// maybeAddDir extends the watch to a directory created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	top, _, _ := strings.Cut(rel, "/")
	if (top != catalog.PackagesDir && top != catalog.CollectionsDir) || w.ignored(rel) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.log.Warn("watch new directory", "path", path, "error", err)
	}
}

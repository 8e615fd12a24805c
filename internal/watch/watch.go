package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sphinxbuilder/internal/config"
	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
)

// BuildFunc runs one build. A returned error is logged and watching continues.
type BuildFunc func(ctx context.Context) error

// Watcher rebuilds on source changes.
type Watcher struct {
	root     string
	rules    ignoreRules
	debounce time.Duration
	build    BuildFunc

	ready chan struct{}
}

// New creates a Watcher for the configured source directory.
func New(cfg *config.Config, build BuildFunc) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Sphinx.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve source dir: %w", err)
	}
	buildDir, err := filepath.Abs(cfg.Sphinx.BuildDir)
	if err != nil {
		return nil, fmt.Errorf("resolve build dir: %w", err)
	}
	return &Watcher{
		root:     root,
		rules:    ignoreRules{buildDir: buildDir, generated: cfg.Autogen.GeneratedPatterns},
		debounce: cfg.WatchDebounce(),
		build:    build,
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once the initial build has finished and events are being
// processed.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run builds once, then rebuilds on every debounced change until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	w.addDirsRecursive(fw, w.root)

	w.rebuild(ctx)

	deb := newDebouncer(w.debounce)
	defer deb.Stop()

	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		runWorker(workerCtx, deb.C, w.rebuild)
	}()
	// An interrupted rebuild still finishes its report and metrics.
	defer func() {
		stopWorker()
		<-workerDone
	}()

	slog.Info("Watching for changes", logfields.Path(w.root))
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, deb.Trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()
	if err := w.build(ctx); err != nil {
		if ctx.Err() == nil {
			slog.Warn("Rebuild failed; still watching", logfields.Error(err))
		}
		return
	}
	slog.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.rules.shouldIgnore(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != w.root && w.rules.skipDir(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

package analyze

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-analyses program documents when they are written.
type Watcher struct {
	analyzer Analyzer
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
}

// NewWatcher creates a watcher reporting through analyzer.
func NewWatcher(analyzer Analyzer, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		analyzer: analyzer,
		logger:   logger,
		watcher:  fw,
		files:    make(map[string]bool),
		debounce: 100 * time.Millisecond,
	}, nil
}

// Add watches every directory under paths. A file is watched through its
// parent directory and is analysed whatever its extension.
func (w *Watcher) Add(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			w.files[filepath.Clean(path)] = true
			if err := w.watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("error adding %s to watcher: %w", path, err)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.watcher.Add(p)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return nil
}

// Run handles filesystem events until ctx is done or the watcher is closed,
// calling report after each re-analysis.
func (w *Watcher) Run(ctx context.Context, report func(Result, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.wanted(event) {
				continue
			}
			w.logger.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			// wait for a while after file change to consider multiple changes as one
			time.Sleep(w.debounce)
			report(w.analyzer.AnalyzeFile(event.Name))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) wanted(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return hasDesiredExtension(event.Name) || w.files[filepath.Clean(event.Name)]
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

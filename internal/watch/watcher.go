// Package watch monitors a drop directory for new dump records and hands
// each settled file to a handler, one at a time.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"discsub/internal/logging"
)

// Handler processes one settled file.
type Handler func(ctx context.Context, path string)

// Watcher reports files matching a glob pattern once they stop changing for
// the settle interval.
type Watcher struct {
	dir     string
	pattern string
	settle  time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
}

// New constructs a Watcher for dir. pattern is matched against file base
// names with filepath.Match.
func New(dir, pattern string, settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("watch directory not configured")
	}
	if pattern == "" {
		pattern = "*"
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid watch pattern %q: %w", pattern, err)
	}
	return &Watcher{
		dir:     dir,
		pattern: pattern,
		settle:  settle,
		logger:  logging.NewComponentLogger(logger, "watch"),
		pending: map[string]*time.Timer{},
		ready:   make(chan string, 64),
	}, nil
}

// Matches reports whether path is a file the watcher handles.
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ok, _ := filepath.Match(w.pattern, base)
	return ok
}

// Run watches until ctx is cancelled, calling handle for each settled file.
// Handlers run sequentially on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", w.dir, err)
	}
	defer w.stopTimers()

	w.logger.Info("watching directory",
		logging.String("dir", w.dir),
		logging.String("pattern", w.pattern),
		logging.Duration("settle", w.settle))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || !w.Matches(event.Name) {
				continue
			}
			w.touch(event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "file watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some file events may be missed"))
		case path := <-w.ready:
			w.logger.Info("file settled", logging.String("path", path))
			handle(ctx, path)
		}
	}
}

// touch restarts the settle timer for path.
func (w *Watcher) touch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ready <- path
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

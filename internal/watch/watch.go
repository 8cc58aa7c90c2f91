// Package watch re-runs an action whenever a single source file is saved.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events one editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches one file.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Log      *slog.Logger
}

// Run calls onChange after each settled write to w.Path until ctx is
// cancelled. Calls never overlap; writes that land during a call schedule
// one more call.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	target, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := w.Log
	if log == nil {
		log = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors often save by renaming a temp file over the target, which
	// drops a watch on the file itself. Watch the directory instead.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Debug("watch: change", slog.String("file", target), slog.String("op", event.Op.String()))
				timer.Reset(debounce)
			}

		case <-timer.C:
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Non-fatal; keep watching.
			log.Warn("watch: watcher error", slog.Any("error", err))
		}
	}
}

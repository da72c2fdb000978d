package history

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the current records, then again every time the history
// file is created, replaced or removed, until ctx is done. The parent
// directory is watched because Append replaces the file by rename.
func (s *Store) Watch(ctx context.Context, fn func([]Record, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating history watcher: %w", err)
	}
	defer w.Close() //nolint:errcheck

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	fn(s.Load())

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			fn(s.Load())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("History watcher error", "error", err)
		}
	}
}

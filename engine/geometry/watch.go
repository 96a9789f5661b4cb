package geometry

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watch reports changes to the given files until ctx is done. The parent directories are watched
// rather than the files, so editors that replace a file on save are still seen.
//
// Parameters:
//   - ctx: stops the watch
//   - paths: the files to watch
//   - onChange: called with the cleaned path after a write to or creation of a watched file
//   - logger: receives watcher errors; nil uses slog.Default()
//
// Returns:
//   - error: if the watcher cannot be created or a directory cannot be watched; nil when ctx ends the watch
func Watch(ctx context.Context, paths []string, onChange func(path string), logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "Failed to create file watcher")
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, "Failed to resolve %q", p)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "Failed to watch %q", dir)
		}
		dirs[dir] = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if watched[name] {
				onChange(name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "err", err)
		}
	}
}

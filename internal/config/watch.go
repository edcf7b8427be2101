package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/logging"
)

// WatchCatalog reloads the catalog at path into store whenever the file is
// written or replaced, until ctx is done. A file that fails to parse is
// logged and the previous catalog stays in place.
func WatchCatalog(ctx context.Context, path string, store *content.Store, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so rename-replacements of the file are seen.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}
	logger.Info("catalog", "watching catalog", map[string]any{"path": abs})

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			catalog, err := content.Load(abs)
			if err != nil {
				logger.Error("catalog", "reload failed, keeping previous catalog", err, map[string]any{"path": abs})
				continue
			}
			store.Replace(catalog)
			logger.Info("catalog", "catalog reloaded", map[string]any{
				"path":     abs,
				"personas": len(catalog.Personas),
				"pillars":  len(catalog.Pillars),
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog", "watcher error", map[string]any{"error": err.Error()})
		}
	}
}

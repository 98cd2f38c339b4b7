package script

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads library definitions when their backing source files
// change on disk. Each watched file maps to one registered script name.
type Watcher struct {
	lib     *Library
	logger  zerolog.Logger
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	names map[string]string // file path -> script name
}

// NewWatcher creates a watcher feeding lib.
func NewWatcher(lib *Library, logger zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		lib:     lib,
		logger:  logger,
		watcher: fw,
		names:   make(map[string]string),
	}, nil
}

// Watch ties a source file to a registered script. The script must
// already be in the library; the watcher only updates source.
func (w *Watcher) Watch(name, path string) error {
	if _, ok := w.lib.Lookup(name); !ok {
		return fmt.Errorf("script %q is not registered", name)
	}
	if err := w.watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w.mu.Lock()
	w.names[path] = name
	w.mu.Unlock()
	return nil
}

// Run processes file events until ctx is cancelled. Call it in its own
// goroutine.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.mu.Lock()
			name, known := w.names[event.Name]
			w.mu.Unlock()
			if !known {
				continue
			}
			source, err := os.ReadFile(event.Name)
			if err != nil {
				w.logger.Error().Err(err).Str("file", event.Name).Msg("Failed to read changed script")
				continue
			}
			if err := w.lib.Reload(name, string(source)); err != nil {
				w.logger.Error().Err(err).Str("script", name).Msg("Failed to reload script")
				continue
			}
			w.logger.Debug().
				Str("script", name).
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Script source reloaded")

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

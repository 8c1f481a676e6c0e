package admin

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader watches the config file for changes and triggers a policy
// hot-reload on the server.
type Reloader struct {
	watcher *fsnotify.Watcher
	server  *Server
	logger  *zap.Logger
}

// NewReloader creates a file watcher for the server's config path.
func NewReloader(server *Server, logger *zap.Logger) (*Reloader, error) {
	if server.confPath == "" {
		return nil, fmt.Errorf("no config file to watch")
	}
	if _, err := os.Stat(server.confPath); err != nil {
		return nil, fmt.Errorf("config file not watchable: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(server.confPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", server.confPath, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reloader{watcher: watcher, server: server, logger: logger}, nil
}

// Run watches for file changes and reloads the policy. Blocks until ctx
// is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	// Debounce: wait 500ms after last write before reloading
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := r.server.ReloadPolicy(); err != nil {
						r.logger.Warn("hot-reload failed", zap.Error(err))
					}
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

package session

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher observes local artifact files. The session is immutable once
// loaded, so a change on disk only produces a restart-needed warning;
// nothing is reloaded.
type Watcher struct {
	fs     *fsnotify.Watcher
	logger *zap.Logger
}

func NewWatcher(logger *zap.Logger, paths ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fs: fs, logger: logger}
	for _, path := range paths {
		if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			continue
		}
		if err := fs.Add(path); err != nil {
			fs.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.logger.Warn("artifact changed on disk, restart to pick it up",
					zap.String("path", event.Name),
					zap.String("op", event.Op.String()))
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("artifact watcher error", zap.Error(err))
		}
	}
}

package dataset

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to the prepared files. The ETL rewrites several
// files in a row, so events are coalesced until the directory has been quiet
// for the debounce interval.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger
}

var watchedExtensions = []string{".csv", ".html"}

func NewWatcher(debounce time.Duration, logger *zap.Logger, dirs ...string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	added := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if added[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
		added[dir] = true
	}

	return &Watcher{watcher: watcher, debounce: debounce, logger: logger}, nil
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	return slices.Contains(watchedExtensions, strings.ToLower(filepath.Ext(event.Name)))
}

// Watch calls onChange once per burst of relevant events until ctx ends.
func (watcher *Watcher) Watch(ctx context.Context, onChange func()) error {
	timer := time.NewTimer(watcher.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			watcher.logger.Debug("prepared file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(watcher.debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (watcher *Watcher) Close() error {
	return watcher.watcher.Close()
}

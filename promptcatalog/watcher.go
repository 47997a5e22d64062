package promptcatalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatcherConfig struct {
	Logger   *slog.Logger
	Paths    []string
	Debounce time.Duration
	// OnChange runs on the watcher goroutine once a burst of events settles.
	OnChange func()
}

func (cfg *WatcherConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.OnChange == nil {
		return errors.New("change callback is required")
	}
	if cfg.Debounce <= 0 {
		return errors.New("debounce must be positive")
	}
	return nil
}

// Watcher calls OnChange when files under the prompt catalog paths change.
// fsnotify does not recurse, so every directory is watched individually and
// new directories are added as they appear.
type Watcher struct {
	cfg     WatcherConfig
	log     *slog.Logger
	watcher *fsnotify.Watcher
}

func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate prompt watcher config: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w := &Watcher{cfg: cfg, log: cfg.Logger, watcher: fsw}
	for _, dir := range WatchDirs(cfg.Paths) {
		w.add(dir)
	}
	return w, nil
}

// WatchList returns the directories currently watched.
func (w *Watcher) WatchList() []string {
	return w.watcher.WatchList()
}

func (w *Watcher) add(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		w.log.Warn("promptcatalog: failed to watch directory", "dir", dir, "error", err)
		return
	}
	w.log.Debug("promptcatalog: watching directory", "dir", dir)
}

// Run blocks until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for _, dir := range WatchDirs([]string{event.Name}) {
						w.add(dir)
					}
				}
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.log.Debug("promptcatalog: change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("promptcatalog: watcher error", "error", err)
		case <-fire:
			fire = nil
			w.cfg.OnChange()
		}
	}
}

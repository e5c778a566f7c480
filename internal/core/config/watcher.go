package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"
)

// DefaultReloadDebounce coalesces the burst of events an editor save produces.
const DefaultReloadDebounce = 100 * time.Millisecond

// Watcher reloads the configuration file when its content changes and hands
// the validated result to onReload. Saves that leave the bytes unchanged and
// files that fail to load are skipped.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Config) error

	mu      sync.Mutex
	lastSum uint64
	timer   *time.Timer

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewWatcher(path string, debounce time.Duration, onReload func(*Config) error) *Watcher {
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onReload: onReload,
		stop:     make(chan struct{}),
	}
}

// Start watches the file's parent directory so replace-on-save is seen. The
// current content is taken as the baseline.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	if data, err := os.ReadFile(w.path); err == nil {
		w.lastSum = xxh3.Hash(data)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer fsw.Close()
		defer w.cancelPending()

		slog.Debug("watching config file", "path", w.path)
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == w.path && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					w.schedule()
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", "path", w.path, "error", err)
			case <-w.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		slog.Warn("failed to read configuration", "path", w.path, "error", err)
		return
	}
	sum := xxh3.Hash(data)

	w.mu.Lock()
	unchanged := sum == w.lastSum
	w.mu.Unlock()
	if unchanged {
		slog.Debug("config file saved without changes", "path", w.path)
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		slog.Warn("failed to reload configuration", "path", w.path, "error", err)
		return
	}
	if w.onReload != nil {
		if err := w.onReload(cfg); err != nil {
			slog.Warn("reloaded configuration rejected", "path", w.path, "error", err)
			return
		}
	}

	w.mu.Lock()
	w.lastSum = sum
	w.mu.Unlock()
	slog.Info("configuration reloaded", "path", w.path)
}

package navgrid

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Reload is delivered by Watcher after the grid file changed.
// Exactly one of Grid and Err is set.
type Reload struct {
	Grid *Grid
	Err  error
}

// Watcher reloads a grid binary whenever it changes on disk.
// The directory is watched rather than the file so editors that replace
// the file by rename are still observed.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	reloads chan Reload
}

// NewWatcher starts watching path. Call Run to process events.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving grid path %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating grid watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:    abs,
		watcher: fw,
		reloads: make(chan Reload, 1),
	}, nil
}

// Reloads returns the channel of reload results.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Run processes file events until ctx is cancelled, then closes the
// watcher and the Reloads channel. A burst of events is collapsed into a
// single reload once the file has been quiet for reloadDebounce.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.reloads)
	defer w.watcher.Close()

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(reloadDebounce)

		case <-timer.C:
			g, err := LoadFile(w.path)
			if err != nil {
				slog.Warn("grid reload failed", "file", w.path, "err", err)
			}
			select {
			case w.reloads <- Reload{Grid: g, Err: err}:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("grid watcher error", "err", err)
		}
	}
}

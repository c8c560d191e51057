package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is the quiet period after the last file event before the
// config is re-read. Editors that save by delete+recreate or
// write-temp+rename produce several events per save.
const DebounceInterval = 200 * time.Millisecond

// Watcher re-reads the config file whenever its content changes and hands
// the parsed result to OnReload. Parse failures go to OnInvalid and the
// caller keeps whatever config it already had.
type Watcher struct {
	Path      string
	Debounce  time.Duration
	OnReload  func(Config)
	OnInvalid func(error)
	Logger    *log.Logger

	// ready is closed once the directory watch is in place.
	ready chan struct{}
}

// isContentChange matches direct writes, creates and renames. Renames cover
// the atomic-save pattern where the final name appears via a move.
func isContentChange(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}

// Run watches until ctx is canceled. The parent directory is watched rather
// than the file so a delete+recreate does not drop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	interval := w.Debounce
	if interval <= 0 {
		interval = DebounceInterval
	}

	dir := filepath.Dir(w.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("watching config: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching config: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching config dir %s: %w", dir, err)
	}
	logger.Debug("watching config", "path", w.Path)
	if w.ready != nil {
		close(w.ready)
	}

	debounced := debounce.New(interval)
	name := filepath.Base(w.Path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name || !isContentChange(event.Op) {
				continue
			}
			logger.Debug("config file event", "op", event.Op.String())
			debounced(func() { w.reload(ctx, logger) })
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "err", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context, logger *log.Logger) {
	if ctx.Err() != nil {
		return
	}
	cfg, err := LoadFile(w.Path)
	if err != nil {
		logger.Warn("config reload failed, keeping previous config", "path", w.Path, "err", err)
		if w.OnInvalid != nil {
			w.OnInvalid(err)
		}
		return
	}
	logger.Info("config file changed, reloading", "path", w.Path)
	if w.OnReload != nil {
		w.OnReload(cfg)
	}
}

package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/xtrace11/xtrace/internal/logger"
	"github.com/xtrace11/xtrace/internal/x11"
)

// Watcher reloads the trace filter tokens and size limit from a config file
// while a trace is running, without restarting the session. This is a
// natural extension of viper's WatchConfig the teacher's own CLI does not
// call, since only a long-running trace needs a live filter.
type Watcher struct {
	path      string
	formatter *x11.Formatter
	fsw       *fsnotify.Watcher
	done      chan struct{}
}

// NewWatcher starts watching path and applying filter/size-limit changes
// to formatter as they happen.
func NewWatcher(path string, formatter *x11.Formatter) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: failed to create file watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config: failed to watch %q: %w", path, err)
	}

	w := &Watcher{path: path, formatter: formatter, fsw: fsw, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("config: watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logger.Warn("config: failed to reload config", "path", w.path, "error", err)
		return
	}

	reqFilter, eventFilter, err := x11.ParseFilterTokens(nil, nil, cfg.Trace.Filter)
	if err != nil {
		logger.Warn("config: failed to parse reloaded filter tokens", "filter", cfg.Trace.Filter, "error", err)
		return
	}
	w.formatter.SetFilters(reqFilter, eventFilter)

	limit, err := x11.ParseSizeLimit(cfg.Trace.SizeLimit)
	if err != nil {
		logger.Warn("config: failed to parse reloaded size limit", "size_limit", cfg.Trace.SizeLimit, "error", err)
		return
	}
	w.formatter.SetSizeLimit(limit)

	logger.Info("config: live-reloaded trace filters", "filter", cfg.Trace.Filter, "size_limit", cfg.Trace.SizeLimit)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

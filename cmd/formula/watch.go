package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch calls reload each time the file at path changes, until ctx is done.
// Errors from reload are logged rather than stopping the watch.
func watch(ctx context.Context, path string, logger *slog.Logger, reload func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return err
	}
	logger.Debug("watching", "path", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			drain(w.Events)
			logger.Debug("file changed", "path", path, "op", ev.Op.String())
			if err := reload(); err != nil {
				logger.Error("evaluating sheet", "path", path, "error", err)
			}
			// Editors often save by replacing the file, which ends the watch.
			if err := w.Add(path); err != nil {
				logger.Warn("rewatching", "path", path, "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watching", "path", path, "error", err)
		}
	}
}

// drain discards the burst of events that a single save tends to produce, so
// the file is read once and not while it is half written.
func drain(events <-chan fsnotify.Event) {
	for {
		time.Sleep(10 * time.Millisecond)
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

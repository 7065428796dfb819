package main

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/plus3/tween/internal/config"
)

// watchConfig reloads the config file whenever it is written and sends
// every valid result on the returned channel. The directory is watched
// rather than the file so editors that replace the file are noticed.
func watchConfig(ctx context.Context, path string, logger *log.Logger) (<-chan *config.Config, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	updates := make(chan *config.Config, 1)
	go func() {
		defer watcher.Close()
		defer close(updates)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(e.Name) != path || !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.Load(path)
				if err != nil {
					logger.Error("ignoring config change", "err", err)
					continue
				}
				// Keep only the newest config if the run loop has not caught up.
				select {
				case <-updates:
				default:
				}
				updates <- cfg
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("config watcher", "err", err)
			}
		}
	}()
	return updates, nil
}

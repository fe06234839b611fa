package server

import (
	"context"
	"strings"
	"time"

	"capstan/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces bursts of filesystem events (editors write,
// rename, and chmod in quick succession) into one reload.
const reloadDebounce = 250 * time.Millisecond

// watch recompiles the declarations whenever a unit file changes. It
// returns when the context is cancelled.
func (s *Server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.cfg.Server.Declarations); err != nil {
		return err
	}
	logging.Info("Server", "Watching %s for declaration changes", s.cfg.Server.Declarations)

	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isUnitEvent(event) {
				continue
			}
			logging.Debug("Server", "Declaration change: %s %s", event.Op, event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Server", "Watcher error: %v", err)

		case <-reload:
			if err := s.Reload(); err != nil {
				logging.Error("Server", err, "Reload failed; previous capabilities stay active")
			}
		}
	}
}

func isUnitEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := strings.ToLower(event.Name)
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".json")
}

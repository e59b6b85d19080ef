package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/justyntemme/filedrop/internal/debug"
)

// Watcher reloads a Manager when its file changes on disk and publishes
// the reloaded config on Notify.
type Watcher struct {
	watcher  *fsnotify.Watcher
	manager  *Manager
	file     string
	notify   chan Config
	done     chan struct{}
	debounce time.Duration
}

// NewWatcher watches the directory holding m's file. Editors often replace
// the file rather than write it in place, so the directory is watched.
func NewWatcher(m *Manager, debounceMs int) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 200 // Default 200ms debounce
	}

	file := filepath.Clean(m.Path())
	if err := w.Add(filepath.Dir(file)); err != nil {
		w.Close()
		return nil, err
	}

	cw := &Watcher{
		watcher:  w,
		manager:  m,
		file:     file,
		notify:   make(chan Config, 1),
		done:     make(chan struct{}),
		debounce: time.Duration(debounceMs) * time.Millisecond,
	}

	go cw.run()
	return cw, nil
}

func (cw *Watcher) run() {
	var lastEvent time.Time
	pending := false
	ticker := time.NewTicker(cw.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-cw.done:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.file {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				lastEvent = time.Now()
				pending = true
				debug.Log(debug.CONFIG, "FSNotify event: %s on %s", event.Op, event.Name)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.CONFIG, "FSNotify error: %v", err)

		case <-ticker.C:
			if !pending || time.Since(lastEvent) < cw.debounce {
				continue
			}
			pending = false
			if err := cw.manager.Load(); err != nil {
				debug.Log(debug.CONFIG, "Reload failed: %v", err)
				continue
			}
			if perr := cw.manager.ParseError(); perr != nil {
				// Keep running with whatever the app already applied
				debug.Log(debug.CONFIG, "Reload ignored: %v", perr)
				continue
			}
			cfg := cw.manager.Get()
			// Drop a stale pending config in favour of the newest one
			select {
			case <-cw.notify:
			default:
			}
			cw.notify <- cfg
			debug.Log(debug.CONFIG, "Config reloaded from %s", cw.file)
		}
	}
}

// Notify returns the channel that receives reloaded configs
func (cw *Watcher) Notify() <-chan Config {
	return cw.notify
}

// Close shuts down the watcher
func (cw *Watcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}

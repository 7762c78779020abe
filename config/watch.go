package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/plus3/slidedeck/stagelog"
)

// DefaultDebounce is how long the watcher waits after the last write before
// reloading. Editors often write a file in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a deck file when it changes and delivers the parsed result
// on Updates. Files that fail to parse are reported on Errors and the
// previous deck stays in effect.
type Watcher struct {
	Updates chan *Deck
	Errors  chan error

	path     string
	debounce time.Duration
	log      stagelog.Logger
	watcher  *fsnotify.Watcher
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// Watch starts watching path. The containing directory is watched so that
// editors replacing the file by rename are picked up.
func Watch(path string, debounce time.Duration, log stagelog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = stagelog.Nop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		Updates:  make(chan *Deck, 1),
		Errors:   make(chan error, 1),
		path:     abs,
		debounce: debounce,
		log:      log,
		watcher:  w,
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes Updates and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Updates)
	defer close(w.Errors)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		case <-timer.C:
			w.reload()
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	deck, err := Load(w.path)
	if err != nil {
		w.log.Warn("deck reload failed", "path", w.path, "error", err)
		w.sendError(err)
		return
	}
	w.log.Info("deck reloaded", "path", w.path)

	// Only the newest deck matters; drop an undelivered older one.
	select {
	case <-w.Updates:
	default:
	}
	select {
	case w.Updates <- deck:
	case <-w.closeCh:
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.Errors <- err:
	default:
		w.log.Error("deck watcher error dropped", "error", err)
	}
}

package tui

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// storeWatcher reports writes to the database made by other processes, such
// as `habitr log` run from another terminal, so open views can reload.
type storeWatcher struct {
	watcher  *fsnotify.Watcher
	dbPath   string
	debounce time.Duration
	log      *zap.Logger

	changes chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// newStoreWatcher watches the directory holding dbPath. SQLite replaces and
// appends to sidecar files (-wal, -shm, -journal), so those count too.
func newStoreWatcher(dbPath string, log *zap.Logger) (*storeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(dbPath)); err != nil {
		w.Close()
		return nil, err
	}

	sw := &storeWatcher{
		watcher:  w,
		dbPath:   filepath.Clean(dbPath),
		debounce: 300 * time.Millisecond,
		log:      log,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go sw.run()
	return sw, nil
}

func (sw *storeWatcher) relevant(name string) bool {
	return strings.HasPrefix(filepath.Clean(name), sw.dbPath)
}

func (sw *storeWatcher) run() {
	defer close(sw.doneCh)
	defer close(sw.changes)

	var pending <-chan time.Time
	for {
		select {
		case <-sw.stopCh:
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !sw.relevant(event.Name) {
				continue
			}
			if pending == nil {
				pending = time.After(sw.debounce)
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Warn("store watcher", zap.Error(err))

		case <-pending:
			pending = nil
			select {
			case sw.changes <- struct{}{}:
			default:
			}
		}
	}
}

// next waits for the next change. It returns nil once the watcher is closed.
func (sw *storeWatcher) next() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-sw.changes; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}

func (sw *storeWatcher) Close() error {
	close(sw.stopCh)
	<-sw.doneCh
	return sw.watcher.Close()
}

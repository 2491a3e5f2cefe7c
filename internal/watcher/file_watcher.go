package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 500 * time.Millisecond

// DirFilter reports whether a directory and everything below it should be
// left unwatched.
type DirFilter func(dir string) bool

type fileWatcher struct {
	watcher      *fsnotify.Watcher
	extensions   map[string]bool
	skipDir      DirFilter
	debounceTime time.Duration
	callback     func(events []Event)
	ctx          context.Context
	cancel       context.CancelFunc

	pausedMu sync.RWMutex
	paused   bool

	pendingMu sync.Mutex
	pending   map[string]Op

	timerMu       sync.Mutex
	debounceTimer *time.Timer

	stopOnce sync.Once
	doneCh   chan struct{}
}

// NewFileWatcher watches dirs recursively for files with one of extensions.
// A zero debounce uses DefaultDebounce. Subdirectories for which skip returns
// true are not watched; skip may be nil.
func NewFileWatcher(dirs []string, extensions []string, debounce time.Duration, skip DirFilter) (FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[ext] = true
	}

	fw := &fileWatcher{
		watcher:      watcher,
		extensions:   extMap,
		skipDir:      skip,
		debounceTime: debounce,
		pending:      make(map[string]Op),
		doneCh:       make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := fw.addRecursive(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return fw, nil
}

func (fw *fileWatcher) Start(ctx context.Context, callback func(events []Event)) error {
	if callback == nil {
		return nil
	}

	fw.callback = callback
	fw.ctx, fw.cancel = context.WithCancel(ctx)

	go fw.watch()
	return nil
}

func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		} else {
			close(fw.doneCh)
		}
		err = fw.watcher.Close()
	})
	return err
}

func (fw *fileWatcher) Pause() {
	fw.pausedMu.Lock()
	defer fw.pausedMu.Unlock()
	fw.paused = true
}

func (fw *fileWatcher) Resume() {
	fw.pausedMu.Lock()
	wasPaused := fw.paused
	fw.paused = false
	fw.pausedMu.Unlock()

	if wasPaused {
		fw.flush()
	}
}

func (fw *fileWatcher) watch() {
	defer close(fw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-fw.ctx.Done():
			fw.stopTimer()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if fw.skipped(event.Name) {
						continue
					}
					if err := fw.addRecursive(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			op, ok := fw.classify(event)
			if !ok {
				continue
			}
			fw.record(event.Name, op)
			fw.resetTimer(fireCh)

		case <-fireCh:
			fw.pausedMu.RLock()
			paused := fw.paused
			fw.pausedMu.RUnlock()
			if !paused {
				fw.flush()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// record merges op into the pending batch. A file created and then written
// within one batch stays a create; anything followed by a delete is a delete.
func (fw *fileWatcher) record(path string, op Op) {
	fw.pendingMu.Lock()
	defer fw.pendingMu.Unlock()

	if prev, ok := fw.pending[path]; ok && prev == OpCreate && op == OpChange {
		return
	}
	fw.pending[path] = op
}

// flush hands the pending batch to the callback.
func (fw *fileWatcher) flush() {
	fw.pendingMu.Lock()
	if len(fw.pending) == 0 {
		fw.pendingMu.Unlock()
		return
	}
	events := make([]Event, 0, len(fw.pending))
	for path, op := range fw.pending {
		events = append(events, Event{Path: path, Op: op})
	}
	fw.pending = make(map[string]Op)
	fw.pendingMu.Unlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	if fw.callback != nil {
		fw.callback(events)
	}
}

func (fw *fileWatcher) resetTimer(fireCh chan struct{}) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (fw *fileWatcher) stopTimer() {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
		fw.debounceTimer = nil
	}
}

// classify maps an fsnotify event on a monitored file to an Op. A rename is
// reported for the old name, so it counts as a delete.
func (fw *fileWatcher) classify(event fsnotify.Event) (Op, bool) {
	if !fw.extensions[filepath.Ext(event.Name)] {
		return "", false
	}
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return OpDelete, true
	case event.Op&fsnotify.Create != 0:
		return OpCreate, true
	case event.Op&fsnotify.Write != 0:
		return OpChange, true
	}
	return "", false
}

func (fw *fileWatcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && fw.skipped(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}

func (fw *fileWatcher) skipped(dir string) bool {
	return fw.skipDir != nil && fw.skipDir(dir)
}

package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DetachedHead is reported for a HEAD pointing at a commit.
const DetachedHead = "detached"

type checkoutWatcher struct {
	gitDir   string
	headPath string
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	current string

	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopOnce sync.Once
}

// NewCheckoutWatcher watches <gitDir>/HEAD. It fails when HEAD is unreadable.
func NewCheckoutWatcher(gitDir string) (CheckoutWatcher, error) {
	headPath := filepath.Join(gitDir, "HEAD")
	branch, err := readHead(headPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read git HEAD: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &checkoutWatcher{
		gitDir:   gitDir,
		headPath: headPath,
		watcher:  watcher,
		current:  branch,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start watches the git directory, since checkouts replace HEAD rather than
// writing it in place.
func (cw *checkoutWatcher) Start(ctx context.Context, callback func(from, to string)) error {
	if err := cw.watcher.Add(cw.gitDir); err != nil {
		return fmt.Errorf("failed to watch git directory: %w", err)
	}
	cw.started = true
	go cw.watch(ctx, callback)
	return nil
}

func (cw *checkoutWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		close(cw.stopCh)
		if cw.started {
			<-cw.doneCh
		}
		err = cw.watcher.Close()
	})
	return err
}

func (cw *checkoutWatcher) watch(ctx context.Context, callback func(from, to string)) {
	defer close(cw.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopCh:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != cw.headPath || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			branch, err := readHead(cw.headPath)
			if err != nil {
				log.Printf("Warning: failed to read git HEAD: %v", err)
				continue
			}
			if branch == "" {
				// Truncated mid-write; the next event carries the content.
				continue
			}

			cw.mu.Lock()
			from := cw.current
			cw.current = branch
			cw.mu.Unlock()

			if from != branch {
				cw.notify(callback, from, branch)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Git watcher error: %v", err)
		}
	}
}

func (cw *checkoutWatcher) notify(callback func(from, to string), from, to string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: checkout callback panic: %v", r)
		}
	}()
	callback(from, to)
}

func readHead(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return parseHead(string(content)), nil
}

// parseHead returns the branch a HEAD file points to, or DetachedHead.
func parseHead(content string) string {
	line := strings.TrimSpace(content)
	if ref, ok := strings.CutPrefix(line, "ref: refs/heads/"); ok {
		return strings.TrimSpace(ref)
	}
	if len(line) == 40 && strings.Trim(strings.ToLower(line), "0123456789abcdef") == "" {
		return DetachedHead
	}
	return line
}

package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Coordinator:
// - File batches reach the handler in order
// - A checkout pauses file events, reloads, then resumes
// - Reload failures are logged and do not stop the coordinator
// - Start errors from watchers are returned after cleanup
// - Cancelling the context stops both watchers

type mockFileWatcher struct {
	mu       sync.Mutex
	callback func([]Event)
	startErr error
	calls    []string
	stopped  bool
	started  chan struct{}
}

func newMockFileWatcher() *mockFileWatcher {
	return &mockFileWatcher{started: make(chan struct{})}
}

func (m *mockFileWatcher) Start(ctx context.Context, callback func([]Event)) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.mu.Lock()
	m.callback = callback
	m.mu.Unlock()
	close(m.started)
	return nil
}

func (m *mockFileWatcher) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockFileWatcher) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "pause")
}

func (m *mockFileWatcher) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "resume")
}

func (m *mockFileWatcher) fire(events []Event) {
	m.mu.Lock()
	cb := m.callback
	m.mu.Unlock()
	cb(events)
}

type mockCheckoutWatcher struct {
	mu       sync.Mutex
	callback func(from, to string)
	stopped  bool
	started  chan struct{}
}

func (m *mockCheckoutWatcher) Start(ctx context.Context, callback func(from, to string)) error {
	m.mu.Lock()
	m.callback = callback
	m.mu.Unlock()
	close(m.started)
	return nil
}

func (m *mockCheckoutWatcher) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

type mockHandler struct {
	mu        sync.Mutex
	batches   [][]Event
	reloads   int
	reloadErr error
	done      chan struct{}
}

func newMockHandler() *mockHandler {
	return &mockHandler{done: make(chan struct{}, 16)}
}

func (m *mockHandler) HandleEvents(ctx context.Context, events []Event) {
	m.mu.Lock()
	m.batches = append(m.batches, events)
	m.mu.Unlock()
	m.done <- struct{}{}
}

func (m *mockHandler) Reload(ctx context.Context) error {
	m.mu.Lock()
	m.reloads++
	err := m.reloadErr
	m.mu.Unlock()
	m.done <- struct{}{}
	return err
}

func (m *mockHandler) wait(t *testing.T) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(3 * time.Second):
		t.Fatal("handler not called")
	}
}

func runCoordinator(t *testing.T, c *Coordinator) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx) }()
	t.Cleanup(cancel)
	return cancel, errCh
}

func TestCoordinator_FileBatches(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	handler := newMockHandler()
	cancel, errCh := runCoordinator(t, NewCoordinator(files, nil, handler))
	<-files.started

	files.fire([]Event{{Path: "a.fxml", Op: OpChange}})
	handler.wait(t)
	files.fire(nil)
	files.fire([]Event{{Path: "B.java", Op: OpDelete}})
	handler.wait(t)

	handler.mu.Lock()
	assert.Equal(t, [][]Event{
		{{Path: "a.fxml", Op: OpChange}},
		{{Path: "B.java", Op: OpDelete}},
	}, handler.batches)
	handler.mu.Unlock()

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	files.mu.Lock()
	assert.True(t, files.stopped)
	files.mu.Unlock()
}

func TestCoordinator_Checkout(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	checkout := &mockCheckoutWatcher{started: make(chan struct{})}
	handler := newMockHandler()
	handler.reloadErr = errors.New("reload failed")
	cancel, errCh := runCoordinator(t, NewCoordinator(files, checkout, handler))
	<-files.started
	<-checkout.started

	checkout.callback("main", "feature")
	handler.wait(t)
	files.fire([]Event{{Path: "a.fxml", Op: OpCreate}})
	handler.wait(t)

	handler.mu.Lock()
	assert.Equal(t, 1, handler.reloads)
	assert.Len(t, handler.batches, 1)
	handler.mu.Unlock()

	cancel()
	<-errCh
	files.mu.Lock()
	assert.Equal(t, []string{"pause", "resume"}, files.calls)
	files.mu.Unlock()
	checkout.mu.Lock()
	assert.True(t, checkout.stopped)
	checkout.mu.Unlock()
}

func TestCoordinator_StartError(t *testing.T) {
	t.Parallel()

	files := newMockFileWatcher()
	files.startErr = errors.New("no such directory")

	err := NewCoordinator(files, nil, newMockHandler()).Start(context.Background())
	require.Error(t, err)
	assert.True(t, files.stopped)
}

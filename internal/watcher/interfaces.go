package watcher

import "context"

// Op classifies a file event.
type Op string

const (
	OpCreate Op = "create"
	OpChange Op = "change"
	OpDelete Op = "delete"
)

// Event is one debounced change to a watched file.
type Event struct {
	Path string `json:"path"`
	Op   Op     `json:"op"`
}

// FileWatcher monitors source files for changes with debouncing and pause/resume support.
type FileWatcher interface {
	// Start begins watching, calling callback with debounced batches sorted by path.
	Start(ctx context.Context, callback func(events []Event)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
	Resume()
}

// CheckoutWatcher reports when the checked-out git branch changes.
type CheckoutWatcher interface {
	Start(ctx context.Context, callback func(from, to string)) error
	Stop() error
}

// Handler consumes watcher output.
type Handler interface {
	// HandleEvents processes one batch. Failures of single events are the
	// handler's to log.
	HandleEvents(ctx context.Context, events []Event)

	// Reload rebuilds all state after a branch checkout.
	Reload(ctx context.Context) error
}

package watcher

import (
	"context"
	"log"
	"sync"
)

type job func(ctx context.Context)

// Coordinator routes watcher output to a Handler. Batches and reloads run one
// at a time on the goroutine that called Start.
type Coordinator struct {
	files    FileWatcher
	checkout CheckoutWatcher
	handler  Handler

	mu      sync.Mutex
	pending []job
	wake    chan struct{}
}

// NewCoordinator creates a coordinator. checkout may be nil outside git work trees.
func NewCoordinator(files FileWatcher, checkout CheckoutWatcher, handler Handler) *Coordinator {
	return &Coordinator{
		files:    files,
		checkout: checkout,
		handler:  handler,
		wake:     make(chan struct{}, 1),
	}
}

// Start runs the watchers and blocks until ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.files.Start(ctx, c.handleFileChange); err != nil {
		c.cleanup()
		return err
	}
	if c.checkout != nil {
		if err := c.checkout.Start(ctx, c.handleCheckout); err != nil {
			c.cleanup()
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			c.cleanup()
			return ctx.Err()
		case <-c.wake:
			for _, j := range c.drain() {
				if ctx.Err() != nil {
					break
				}
				j(ctx)
			}
		}
	}
}

func (c *Coordinator) enqueue(j job) {
	c.mu.Lock()
	c.pending = append(c.pending, j)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Coordinator) drain() []job {
	c.mu.Lock()
	defer c.mu.Unlock()
	jobs := c.pending
	c.pending = nil
	return jobs
}

func (c *Coordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		log.Printf("Warning: file watcher stop failed: %v", err)
	}
	if c.checkout != nil {
		if err := c.checkout.Stop(); err != nil {
			log.Printf("Warning: git watcher stop failed: %v", err)
		}
	}
}

func (c *Coordinator) handleFileChange(events []Event) {
	if len(events) == 0 {
		return
	}
	c.enqueue(func(ctx context.Context) {
		log.Printf("Processing %d file change(s)...", len(events))
		c.handler.HandleEvents(ctx, events)
	})
}

// handleCheckout reloads everything; file events arriving meanwhile are held
// back and delivered after the reload.
func (c *Coordinator) handleCheckout(from, to string) {
	c.enqueue(func(ctx context.Context) {
		log.Printf("Branch switch detected: %s → %s", from, to)

		c.files.Pause()
		defer c.files.Resume()

		if err := c.handler.Reload(ctx); err != nil {
			log.Printf("Error: reload after checkout failed: %v", err)
			return
		}
		log.Printf("✓ Reloaded workspace for branch: %s", to)
	})
}

// Package lifecycle coordinates named startup and shutdown hooks.
package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently and holds shutdown hooks
// until its context is cancelled.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool

	mu      sync.Mutex
	pending map[string]int
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]int),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn in its own goroutine. WaitForStartup blocks until
// every startup hook has returned.
func (c *Coordinator) OnStartup(name string, fn func()) {
	c.startup.Go(c.track(name, fn))
}

// OnShutdown runs fn in its own goroutine. Hooks block on
// <-c.Context().Done() before releasing their resources; Shutdown waits
// for them.
func (c *Coordinator) OnShutdown(name string, fn func()) {
	c.shutdown.Go(c.track(name, fn))
}

// Ready reports whether WaitForStartup has completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks have returned, then marks
// the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the context and waits up to timeout for the shutdown
// hooks. On timeout the error names the hooks still running.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v: pending %v", timeout, c.Pending())
	}
}

// Pending returns the sorted names of hooks that have not returned.
func (c *Coordinator) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.pending))
	for name := range c.pending {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *Coordinator) track(name string, fn func()) func() {
	c.mu.Lock()
	c.pending[name]++
	c.mu.Unlock()

	return func() {
		defer func() {
			c.mu.Lock()
			if c.pending[name]--; c.pending[name] <= 0 {
				delete(c.pending, name)
			}
			c.mu.Unlock()
		}()
		fn()
	}
}

package tac

import "sync"

// Cancellable is a flag a running Run polls between lines. The zero value
// and a nil pointer are both not cancelled.
type Cancellable struct {
	mu        sync.Mutex
	cancelled bool
}

func (c *Cancellable) Cancelled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	can := c.cancelled
	c.mu.Unlock()
	return can
}

func (c *Cancellable) Cancel() {
	c.mu.Lock()
	c.cancelled = true
	c.mu.Unlock()
}

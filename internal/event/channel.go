// Package event provides a one-time event channel: each emitted event is delivered
// to exactly one observer, in emission order.
package event

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity is the buffer size used when New is given a non-positive capacity.
const DefaultCapacity = 64

// ErrAlreadyObserved is returned when a second observer tries to attach while one is
// still active.
var ErrAlreadyObserved = errors.New("event channel already has an observer")

// Channel is a bounded FIFO of one-time events with a single consumer.
// Events emitted before an observer attaches are buffered and delivered on attach.
// A delivered event is never delivered again, including to a later observer.
type Channel[E any] struct {
	ch chan E

	mu       sync.Mutex
	observed bool
}

// New creates a channel buffering up to capacity undelivered events.
func New[E any](capacity int) *Channel[E] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel[E]{ch: make(chan E, capacity)}
}

// Emit enqueues e. When the buffer is full it blocks until there is room or ctx is
// done; events are never dropped silently.
func (c *Channel[E]) Emit(ctx context.Context, e E) error {
	select {
	case c.ch <- e:
		return nil
	default:
	}
	select {
	case c.ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryEmit enqueues e without blocking and reports whether it was accepted.
func (c *Channel[E]) TryEmit(e E) bool {
	select {
	case c.ch <- e:
		return true
	default:
		return false
	}
}

// Observe attaches handler as the sole observer and delivers events in order until
// ctx is done. Pending events are delivered first. An event taken off the queue is
// always handed to the handler, even if ctx ends meanwhile.
func (c *Channel[E]) Observe(ctx context.Context, handler func(E)) error {
	if err := c.attach(); err != nil {
		return err
	}
	defer c.detach()

	for {
		// Stop promptly once detached, without consuming another event.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-c.ch:
			handler(e)
		}
	}
}

// Next waits for and returns the next event. It counts as an observer for the
// duration of the call.
func (c *Channel[E]) Next(ctx context.Context) (E, error) {
	var zero E
	if err := c.attach(); err != nil {
		return zero, err
	}
	defer c.detach()

	if ctx.Err() != nil {
		return zero, ctx.Err()
	}
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case e := <-c.ch:
		return e, nil
	}
}

// Pending returns the number of undelivered events.
func (c *Channel[E]) Pending() int {
	return len(c.ch)
}

func (c *Channel[E]) attach() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.observed {
		return ErrAlreadyObserved
	}
	c.observed = true
	return nil
}

func (c *Channel[E]) detach() {
	c.mu.Lock()
	c.observed = false
	c.mu.Unlock()
}

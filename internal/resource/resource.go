// Package resource models the lifecycle of a single asynchronous one-shot operation.
package resource

import "context"

// Resource is one of Empty, Loading, Error or Success. The set is closed: only this
// package can add variants.
type Resource[T any] interface {
	isResource()
}

// Empty is the state before any operation was started.
type Empty[T any] struct{}

// Loading means the operation is in flight.
type Loading[T any] struct{}

// Error is a terminal failure.
type Error[T any] struct {
	Err error
}

// Success is a terminal result.
type Success[T any] struct {
	Value T
}

func (Empty[T]) isResource()   {}
func (Loading[T]) isResource() {}
func (Error[T]) isResource()   {}
func (Success[T]) isResource() {}

// Run starts fn in a goroutine and returns a channel that yields Loading, then exactly
// one of Error or Success, and is then closed. The channel is buffered so the
// operation never blocks on a slow reader.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Resource[T] {
	out := make(chan Resource[T], 2)
	out <- Loading[T]{}
	go func() {
		defer close(out)
		v, err := fn(ctx)
		if err != nil {
			out <- Error[T]{Err: err}
			return
		}
		out <- Success[T]{Value: v}
	}()
	return out
}

// Await drains ch and returns the terminal value, or Empty if the channel closed
// without one.
func Await[T any](ch <-chan Resource[T]) Resource[T] {
	var last Resource[T] = Empty[T]{}
	for r := range ch {
		last = r
	}
	return last
}

// IsTerminal reports whether r is Error or Success.
func IsTerminal[T any](r Resource[T]) bool {
	switch r.(type) {
	case Error[T], Success[T]:
		return true
	}
	return false
}

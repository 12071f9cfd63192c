package paging

import (
	"context"
	"sync"
)

// Stream keeps the Pager for the most recent key. Switching to a new key closes the
// previous pager, so results fetched for an outdated key can never be observed.
type Stream[K comparable, T any] struct {
	parent   context.Context
	pageSize int
	factory  func(K) FetchFunc[T]

	mu         sync.Mutex
	key        K
	current    *Pager[T]
	generation uint64
	closed     bool
}

// NewStream creates a stream. factory builds the fetch function for a key.
func NewStream[K comparable, T any](parent context.Context, pageSize int, factory func(K) FetchFunc[T]) *Stream[K, T] {
	return &Stream[K, T]{
		parent:   parent,
		pageSize: pageSize,
		factory:  factory,
	}
}

// Switch returns the pager for key. An unchanged key returns the existing pager and
// keeps its cached pages; any other key closes the old pager and starts a fresh one.
// The second return value reports whether a new pager was created.
func (s *Stream[K, T]) Switch(key K) (*Pager[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.key == key && !s.closed {
		return s.current, false
	}
	if s.current != nil {
		s.current.Close()
	}

	s.generation++
	p := New(s.parent, s.pageSize, s.factory(key))
	p.generation = s.generation
	if s.closed {
		p.Close()
	}
	s.key = key
	s.current = p
	return p, true
}

// Current returns the active pager, or nil before the first Switch.
func (s *Stream[K, T]) Current() *Pager[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Key returns the key of the active pager.
func (s *Stream[K, T]) Key() K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Generation returns the generation of the active pager. It increases on every
// effective switch.
func (s *Stream[K, T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Close closes the active pager. Pagers returned by later switches are born closed.
func (s *Stream[K, T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.current != nil {
		s.current.Close()
	}
}

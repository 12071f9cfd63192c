// Package paging provides lazily-loaded, restartable, cursor-based result lists.
//
// A Pager owns the pages fetched so far for one parameter set. A Stream holds the
// Pager for the latest parameter set and discards the previous one whenever the
// parameters change (switch-to-latest).
//
// # Thread Safety
//
// Pager and Stream are safe for concurrent use. Fetches run on the caller's goroutine;
// at most one fetch is in flight per Pager.
package paging

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrLoadInFlight indicates a fetch is already running for this pager.
	ErrLoadInFlight = errors.New("page load already in flight")
	// ErrSuperseded indicates the fetch result was discarded because the pager was
	// refreshed or closed while it ran. It matches context.Canceled.
	ErrSuperseded = fmt.Errorf("page load superseded: %w", context.Canceled)
)

// DefaultPageSize is used when a non-positive page size is given.
const DefaultPageSize = 30

// LoadState is the state of one load slot.
type LoadState int

const (
	StateNotLoading LoadState = iota
	StateLoading
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	default:
		return "not loading"
	}
}

// PageState is a load slot's state plus the error when State is StateError.
type PageState struct {
	State LoadState
	Err   error
}

// Page is one fetched page. An empty NextCursor or HasMore=false ends the list.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// FetchFunc fetches the page starting at cursor. The empty cursor is the first page.
type FetchFunc[T any] func(ctx context.Context, cursor string, pageSize int) (Page[T], error)

// Snapshot is an immutable view of a pager.
type Snapshot[T any] struct {
	Generation uint64    // Identifies the parameter set the pager was built for
	Items      []T       // All loaded items, in page order
	Pages      int       // Number of loaded pages
	Refresh    PageState // First page (initial load or refresh)
	Append     PageState // Next page
	EndReached bool      // No more pages to load
}

// Loading reports whether either slot is loading.
func (s Snapshot[T]) Loading() bool {
	return s.Refresh.State == StateLoading || s.Append.State == StateLoading
}

// Err returns the error of whichever slot failed, or nil.
func (s Snapshot[T]) Err() error {
	if s.Refresh.State == StateError {
		return s.Refresh.Err
	}
	if s.Append.State == StateError {
		return s.Append.Err
	}
	return nil
}

// Pager loads pages for a single parameter set.
type Pager[T any] struct {
	fetch      FetchFunc[T]
	pageSize   int
	generation uint64

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	pages       [][]T
	nextCursor  string
	end         bool
	replace     bool // next successful load replaces all pages (refresh)
	refresh     PageState
	appendState PageState
	inFlight    bool
	stopFetch   context.CancelFunc
	epoch       uint64
	subs        map[int]chan Snapshot[T]
	nextSubID   int
}

// New creates a pager whose lifetime is bound to parent.
func New[T any](parent context.Context, pageSize int, fetch FetchFunc[T]) *Pager[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	ctx, cancel := context.WithCancel(parent)
	return &Pager[T]{
		fetch:    fetch,
		pageSize: pageSize,
		ctx:      ctx,
		cancel:   cancel,
		subs:     make(map[int]chan Snapshot[T]),
	}
}

// Snapshot returns the current state.
func (p *Pager[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Closed reports whether the pager was closed.
func (p *Pager[T]) Closed() bool {
	return p.ctx.Err() != nil
}

// LoadNext fetches the next page, or the first page if nothing is loaded yet.
// It is a no-op once the end is reached. Cancelling ctx abandons the fetch without
// marking an error.
func (p *Pager[T]) LoadNext(ctx context.Context) (Snapshot[T], error) {
	p.mu.Lock()
	if p.ctx.Err() != nil {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, ErrSuperseded
	}
	if p.inFlight {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, ErrLoadInFlight
	}
	if p.end && !p.replace {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, nil
	}
	return p.startLocked(ctx)
}

// Refresh invalidates the loaded pages and fetches the first page again.
// Loaded items stay visible until the new first page arrives. A fetch in flight
// is cancelled and its result discarded.
func (p *Pager[T]) Refresh(ctx context.Context) (Snapshot[T], error) {
	p.mu.Lock()
	if p.ctx.Err() != nil {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, ErrSuperseded
	}
	p.abortLocked()
	p.nextCursor = ""
	p.end = false
	p.replace = true
	p.appendState = PageState{}
	return p.startLocked(ctx)
}

// Retry re-issues the load that failed. Without a failed load it returns the
// current snapshot unchanged.
func (p *Pager[T]) Retry(ctx context.Context) (Snapshot[T], error) {
	p.mu.Lock()
	if p.refresh.State != StateError && p.appendState.State != StateError {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, nil
	}
	p.mu.Unlock()
	return p.LoadNext(ctx)
}

// Subscribe returns a channel that receives the latest snapshot after every change,
// and a function that detaches it. Slow readers only see the most recent snapshot.
func (p *Pager[T]) Subscribe() (<-chan Snapshot[T], func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Snapshot[T], 1)
	if p.ctx.Err() != nil {
		close(ch)
		return ch, func() {}
	}
	id := p.nextSubID
	p.nextSubID++
	p.subs[id] = ch
	ch <- p.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if sub, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(sub)
			}
		})
	}
}

// Close cancels any fetch in flight and detaches all subscribers.
// Safe to call multiple times.
func (p *Pager[T]) Close() {
	p.cancel()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.abortLocked()
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
}

// startLocked marks the slot as loading, releases the lock and runs the fetch.
func (p *Pager[T]) startLocked(ctx context.Context) (Snapshot[T], error) {
	first := len(p.pages) == 0 || p.replace
	cursor := p.nextCursor
	if first {
		p.refresh = PageState{State: StateLoading}
	} else {
		p.appendState = PageState{State: StateLoading}
	}

	fetchCtx, cancel := context.WithCancel(p.ctx)
	stop := context.AfterFunc(ctx, cancel)
	p.inFlight = true
	p.stopFetch = cancel
	p.epoch++
	epoch := p.epoch
	p.publishLocked()
	p.mu.Unlock()

	page, err := p.fetch(fetchCtx, cursor, p.pageSize)
	stop()
	cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if epoch != p.epoch || p.ctx.Err() != nil {
		return p.snapshotLocked(), ErrSuperseded
	}
	p.inFlight = false
	p.stopFetch = nil

	if err != nil {
		if ctx.Err() != nil {
			// The caller gave up; that is not a page failure.
			p.setSlotLocked(first, PageState{})
			p.publishLocked()
			return p.snapshotLocked(), ctx.Err()
		}
		p.setSlotLocked(first, PageState{State: StateError, Err: err})
		p.publishLocked()
		return p.snapshotLocked(), err
	}

	items := make([]T, len(page.Items))
	copy(items, page.Items)
	if first {
		p.pages = [][]T{items}
		p.replace = false
	} else {
		p.pages = append(p.pages, items)
	}
	p.nextCursor = page.NextCursor
	p.end = !page.HasMore || page.NextCursor == ""
	p.setSlotLocked(first, PageState{})
	p.publishLocked()
	return p.snapshotLocked(), nil
}

func (p *Pager[T]) setSlotLocked(first bool, st PageState) {
	if first {
		p.refresh = st
	} else {
		p.appendState = st
	}
}

// abortLocked cancels the fetch in flight and makes its result stale.
func (p *Pager[T]) abortLocked() {
	if !p.inFlight {
		return
	}
	if p.stopFetch != nil {
		p.stopFetch()
	}
	p.epoch++
	p.inFlight = false
	p.stopFetch = nil
	if p.refresh.State == StateLoading {
		p.refresh = PageState{}
	}
	if p.appendState.State == StateLoading {
		p.appendState = PageState{}
	}
}

func (p *Pager[T]) snapshotLocked() Snapshot[T] {
	n := 0
	for _, pg := range p.pages {
		n += len(pg)
	}
	items := make([]T, 0, n)
	for _, pg := range p.pages {
		items = append(items, pg...)
	}
	return Snapshot[T]{
		Generation: p.generation,
		Items:      items,
		Pages:      len(p.pages),
		Refresh:    p.refresh,
		Append:     p.appendState,
		EndReached: p.end && !p.replace,
	}
}

// publishLocked replaces whatever snapshot a subscriber has not read yet.
func (p *Pager[T]) publishLocked() {
	if len(p.subs) == 0 {
		return
	}
	snap := p.snapshotLocked()
	for _, ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

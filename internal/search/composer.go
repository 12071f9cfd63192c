// Package search composes the search query and photo filters into three paginated
// result streams (photos, collections and users) that always reflect the latest inputs.
//
// Changing the query restarts all three streams. Changing the filters restarts the
// photo stream only, since collections and users are not filtered. Restarting
// cancels the superseded stream's in-flight fetch and discards its result.
package search

import (
	"context"
	"strings"
	"sync"

	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/paging"
	"github.com/androiddevnotesforks/walleria/internal/unsplash"
)

// Searcher is the subset of the API client the composer needs.
type Searcher interface {
	SearchPhotos(ctx context.Context, query string, filters domain.SearchFilters, page, perPage int) (unsplash.Result[domain.Photo], error)
	SearchCollections(ctx context.Context, query string, page, perPage int) (unsplash.Result[domain.Collection], error)
	SearchUsers(ctx context.Context, query string, page, perPage int) (unsplash.Result[domain.User], error)
}

// History records submitted queries. The store implements it.
type History interface {
	AddRecentSearch(ctx context.Context, query string) error
	RecentSearches(ctx context.Context, limit int) ([]string, error)
}

type photoKey struct {
	Query   string
	Filters domain.SearchFilters
}

// Composer owns the search inputs and the streams derived from them.
type Composer struct {
	api      Searcher
	history  History
	pageSize int

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	query       string
	filters     domain.SearchFilters
	photos      *paging.Stream[photoKey, domain.Photo]
	collections *paging.Stream[string, domain.Collection]
	users       *paging.Stream[string, domain.User]
}

// Option configures a Composer.
type Option func(*Composer)

// WithInitialQuery starts the composer with q, e.g. from a navigation argument.
func WithInitialQuery(q string) Option {
	return func(c *Composer) { c.query = q }
}

// WithFilters starts the composer with f instead of the defaults.
func WithFilters(f domain.SearchFilters) Option {
	return func(c *Composer) { c.filters = f }
}

// WithHistory records submitted queries and enables suggestions.
func WithHistory(h History) Option {
	return func(c *Composer) { c.history = h }
}

// WithPageSize sets the page size of all streams.
func WithPageSize(n int) Option {
	return func(c *Composer) { c.pageSize = n }
}

// New creates a composer. All streams end when parent is cancelled or Close is called.
func New(parent context.Context, api Searcher, opts ...Option) *Composer {
	ctx, cancel := context.WithCancel(parent)
	c := &Composer{
		api:      api,
		pageSize: paging.DefaultPageSize,
		ctx:      ctx,
		cancel:   cancel,
		filters:  domain.DefaultSearchFilters(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.photos = paging.NewStream(ctx, c.pageSize, c.photoFetch)
	c.collections = paging.NewStream(ctx, c.pageSize, c.collectionFetch)
	c.users = paging.NewStream(ctx, c.pageSize, c.userFetch)

	c.photos.Switch(photoKey{Query: c.query, Filters: c.filters})
	c.collections.Switch(c.query)
	c.users.Switch(c.query)
	return c
}

func (c *Composer) photoFetch(key photoKey) paging.FetchFunc[domain.Photo] {
	return unsplash.Pages(func(ctx context.Context, page, perPage int) (unsplash.Result[domain.Photo], error) {
		return c.api.SearchPhotos(ctx, key.Query, key.Filters, page, perPage)
	})
}

func (c *Composer) collectionFetch(query string) paging.FetchFunc[domain.Collection] {
	return unsplash.Pages(func(ctx context.Context, page, perPage int) (unsplash.Result[domain.Collection], error) {
		return c.api.SearchCollections(ctx, query, page, perPage)
	})
}

func (c *Composer) userFetch(query string) paging.FetchFunc[domain.User] {
	return unsplash.Pages(func(ctx context.Context, page, perPage int) (unsplash.Result[domain.User], error) {
		return c.api.SearchUsers(ctx, query, page, perPage)
	})
}

// SetQuery replaces the query and restarts all three streams. The empty query is
// valid and yields empty results. Setting the current query again changes nothing.
func (c *Composer) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if q == c.query {
		return
	}
	c.query = q
	c.photos.Switch(photoKey{Query: q, Filters: c.filters})
	c.collections.Switch(q)
	c.users.Switch(q)
	logging.Debug("search query changed", "query", q)
}

// SetFilters replaces the photo filters and restarts the photo stream only.
func (c *Composer) SetFilters(f domain.SearchFilters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f == c.filters {
		return
	}
	c.filters = f
	c.photos.Switch(photoKey{Query: c.query, Filters: f})
	logging.Debug("search filters changed", "filters", f)
}

// Submit sets the query and records it in the search history.
func (c *Composer) Submit(ctx context.Context, q string) {
	c.SetQuery(q)
	if c.history == nil || strings.TrimSpace(q) == "" {
		return
	}
	if err := c.history.AddRecentSearch(ctx, q); err != nil {
		logging.Warn("failed to record search", "query", q, "err", err)
	}
}

// Query returns the current query.
func (c *Composer) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Filters returns the current photo filters.
func (c *Composer) Filters() domain.SearchFilters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Photos returns the photo pager for the current query and filters. Repeated calls
// return the same pager until an input changes.
func (c *Composer) Photos() *paging.Pager[domain.Photo] {
	return c.photos.Current()
}

// Collections returns the collection pager for the current query.
func (c *Composer) Collections() *paging.Pager[domain.Collection] {
	return c.collections.Current()
}

// Users returns the user pager for the current query.
func (c *Composer) Users() *paging.Pager[domain.User] {
	return c.users.Current()
}

// Close stops all streams and cancels their in-flight fetches.
func (c *Composer) Close() {
	c.cancel()
	c.photos.Close()
	c.collections.Close()
	c.users.Close()
}

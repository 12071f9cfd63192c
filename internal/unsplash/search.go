package unsplash

import (
	"context"
	"net/url"
	"strings"

	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// searchQuery builds the query string shared by all search endpoints.
// It returns false when there is nothing to search for.
func searchQuery(query string, page, perPage int) (url.Values, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}
	q := pageQuery(page, perPage)
	q.Set("query", query)
	return q, true
}

// SearchPhotos searches photos. Filters left at "any" are not sent.
// An empty query returns an empty result without a request.
func (c *Client) SearchPhotos(ctx context.Context, query string, filters domain.SearchFilters, page, perPage int) (Result[domain.Photo], error) {
	q, ok := searchQuery(query, page, perPage)
	if !ok {
		return Result[domain.Photo]{Page: max(page, 1)}, nil
	}
	if filters.Order != "" {
		q.Set("order_by", string(filters.Order))
	}
	if filters.ContentFilter != "" {
		q.Set("content_filter", string(filters.ContentFilter))
	}
	if filters.Color != domain.ColorAny {
		q.Set("color", string(filters.Color))
	}
	if filters.Orientation != domain.OrientationAny {
		q.Set("orientation", string(filters.Orientation))
	}

	var resp searchResponse[apiPhoto]
	if _, err := c.get(ctx, "search photos", "/search/photos", q, &resp); err != nil {
		return Result[domain.Photo]{}, err
	}
	return searchResult(resp, page, apiPhoto.toDomain), nil
}

// SearchCollections searches collections. An empty query returns an empty result.
func (c *Client) SearchCollections(ctx context.Context, query string, page, perPage int) (Result[domain.Collection], error) {
	q, ok := searchQuery(query, page, perPage)
	if !ok {
		return Result[domain.Collection]{Page: max(page, 1)}, nil
	}
	var resp searchResponse[apiCollection]
	if _, err := c.get(ctx, "search collections", "/search/collections", q, &resp); err != nil {
		return Result[domain.Collection]{}, err
	}
	return searchResult(resp, page, apiCollection.toDomain), nil
}

// SearchUsers searches users. An empty query returns an empty result.
func (c *Client) SearchUsers(ctx context.Context, query string, page, perPage int) (Result[domain.User], error) {
	q, ok := searchQuery(query, page, perPage)
	if !ok {
		return Result[domain.User]{Page: max(page, 1)}, nil
	}
	var resp searchResponse[apiUser]
	if _, err := c.get(ctx, "search users", "/search/users", q, &resp); err != nil {
		return Result[domain.User]{}, err
	}
	return searchResult(resp, page, apiUser.toDomain), nil
}

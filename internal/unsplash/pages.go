package unsplash

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/androiddevnotesforks/walleria/internal/paging"
)

// Result is one page of a list or search endpoint.
type Result[T any] struct {
	Items      []T
	Page       int  // 1-based page number
	Total      int  // Total matching items, 0 if the endpoint does not report it
	TotalPages int  // Total pages, 0 if unknown
	HasMore    bool // A further page exists
}

// PageFunc fetches a 1-based page of perPage items.
type PageFunc[T any] func(ctx context.Context, page, perPage int) (Result[T], error)

// Pages adapts a page-numbered endpoint to a paging.FetchFunc.
// The cursor is the decimal number of the next page; the empty cursor is page 1.
func Pages[T any](fn PageFunc[T]) paging.FetchFunc[T] {
	return func(ctx context.Context, cursor string, pageSize int) (paging.Page[T], error) {
		page := 1
		if cursor != "" {
			n, err := strconv.Atoi(cursor)
			if err != nil || n < 1 {
				return paging.Page[T]{}, fmt.Errorf("invalid page cursor %q", cursor)
			}
			page = n
		}
		res, err := fn(ctx, page, pageSize)
		if err != nil {
			return paging.Page[T]{}, err
		}
		out := paging.Page[T]{Items: res.Items, HasMore: res.HasMore}
		if res.HasMore {
			out.NextCursor = strconv.Itoa(page + 1)
		}
		return out, nil
	}
}

// listResult builds a Result for list endpoints, which report totals in headers.
func listResult[T any](items []T, page, perPage int, h http.Header) Result[T] {
	res := Result[T]{Items: items, Page: max(page, 1), Total: totalFromHeader(h)}
	if res.Total > 0 && perPage > 0 {
		res.TotalPages = (res.Total + perPage - 1) / perPage
		res.HasMore = res.Page < res.TotalPages
	} else {
		res.HasMore = perPage > 0 && len(items) >= perPage
	}
	return res
}

// searchResult builds a Result from a search response body.
func searchResult[A any, T any](resp searchResponse[A], page int, f func(A) T) Result[T] {
	page = max(page, 1)
	return Result[T]{
		Items:      mapSlice(resp.Results, f),
		Page:       page,
		Total:      resp.Total,
		TotalPages: resp.TotalPages,
		HasMore:    page < resp.TotalPages,
	}
}

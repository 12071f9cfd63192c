package unsplash

import (
	"context"
	"net/url"

	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// ListCollections returns a page of all public collections.
func (c *Client) ListCollections(ctx context.Context, page, perPage int) (Result[domain.Collection], error) {
	var resp []apiCollection
	h, err := c.get(ctx, "list collections", "/collections", pageQuery(page, perPage), &resp)
	if err != nil {
		return Result[domain.Collection]{}, err
	}
	return listResult(mapSlice(resp, apiCollection.toDomain), page, perPage, h), nil
}

// GetCollection returns a single collection.
func (c *Client) GetCollection(ctx context.Context, id string) (domain.Collection, error) {
	var resp apiCollection
	if _, err := c.get(ctx, "get collection", "/collections/"+url.PathEscape(id), nil, &resp); err != nil {
		return domain.Collection{}, err
	}
	return resp.toDomain(), nil
}

// CollectionPhotos returns a page of a collection's photos.
func (c *Client) CollectionPhotos(ctx context.Context, id string, page, perPage int) (Result[domain.Photo], error) {
	var resp []apiPhoto
	path := "/collections/" + url.PathEscape(id) + "/photos"
	h, err := c.get(ctx, "collection photos", path, pageQuery(page, perPage), &resp)
	if err != nil {
		return Result[domain.Photo]{}, err
	}
	return listResult(mapSlice(resp, apiPhoto.toDomain), page, perPage, h), nil
}

// UserCollections returns a page of collections created by username.
func (c *Client) UserCollections(ctx context.Context, username string, page, perPage int) (Result[domain.Collection], error) {
	var resp []apiCollection
	path := "/users/" + url.PathEscape(username) + "/collections"
	h, err := c.get(ctx, "user collections", path, pageQuery(page, perPage), &resp)
	if err != nil {
		return Result[domain.Collection]{}, err
	}
	return listResult(mapSlice(resp, apiCollection.toDomain), page, perPage, h), nil
}

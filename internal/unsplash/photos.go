package unsplash

import (
	"context"
	"fmt"
	"net/url"

	"github.com/androiddevnotesforks/walleria/internal/apierr"
	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// ListOrder orders the editorial photo and collection feeds.
type ListOrder string

const (
	ListLatest  ListOrder = "latest"
	ListOldest  ListOrder = "oldest"
	ListPopular ListOrder = "popular"
)

// ListPhotos returns a page of the editorial photo feed.
func (c *Client) ListPhotos(ctx context.Context, page, perPage int, order ListOrder) (Result[domain.Photo], error) {
	q := pageQuery(page, perPage)
	if order != "" {
		q.Set("order_by", string(order))
	}

	var resp []apiPhoto
	h, err := c.get(ctx, "list photos", "/photos", q, &resp)
	if err != nil {
		return Result[domain.Photo]{}, err
	}
	return listResult(mapSlice(resp, apiPhoto.toDomain), page, perPage, h), nil
}

// GetPhoto returns a single photo with full statistics.
func (c *Client) GetPhoto(ctx context.Context, id string) (domain.Photo, error) {
	if id == "" {
		return domain.Photo{}, apierr.New(apierr.NotFound, "get photo", fmt.Errorf("empty photo id"))
	}
	var resp apiPhoto
	if _, err := c.get(ctx, "get photo", "/photos/"+url.PathEscape(id), nil, &resp); err != nil {
		return domain.Photo{}, err
	}
	return resp.toDomain(), nil
}

// RandomPhoto returns one random photo, optionally matching query and orientation.
func (c *Client) RandomPhoto(ctx context.Context, query string, orientation domain.Orientation) (domain.Photo, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if orientation != domain.OrientationAny {
		q.Set("orientation", string(orientation))
	}
	var resp apiPhoto
	if _, err := c.get(ctx, "random photo", "/photos/random", q, &resp); err != nil {
		return domain.Photo{}, err
	}
	return resp.toDomain(), nil
}

// TrackDownload reports a completed download, as the API guidelines require, and
// returns the URL the file can be fetched from.
func (c *Client) TrackDownload(ctx context.Context, photoID string) (string, error) {
	if photoID == "" {
		return "", apierr.New(apierr.NotFound, "track download", fmt.Errorf("empty photo id"))
	}
	var resp struct {
		URL string `json:"url"`
	}
	path := "/photos/" + url.PathEscape(photoID) + "/download"
	if _, err := c.get(ctx, "track download", path, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// UserPhotos returns a page of photos uploaded by username.
func (c *Client) UserPhotos(ctx context.Context, username string, page, perPage int) (Result[domain.Photo], error) {
	var resp []apiPhoto
	path := "/users/" + url.PathEscape(username) + "/photos"
	h, err := c.get(ctx, "user photos", path, pageQuery(page, perPage), &resp)
	if err != nil {
		return Result[domain.Photo]{}, err
	}
	return listResult(mapSlice(resp, apiPhoto.toDomain), page, perPage, h), nil
}

// UserLikes returns a page of photos liked by username.
func (c *Client) UserLikes(ctx context.Context, username string, page, perPage int) (Result[domain.Photo], error) {
	var resp []apiPhoto
	path := "/users/" + url.PathEscape(username) + "/likes"
	h, err := c.get(ctx, "user likes", path, pageQuery(page, perPage), &resp)
	if err != nil {
		return Result[domain.Photo]{}, err
	}
	return listResult(mapSlice(resp, apiPhoto.toDomain), page, perPage, h), nil
}

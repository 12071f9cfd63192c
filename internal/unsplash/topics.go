package unsplash

import (
	"context"
	"net/url"

	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// TopicOrder orders the topic list.
type TopicOrder string

const (
	TopicFeatured TopicOrder = "featured"
	TopicLatest   TopicOrder = "latest"
	TopicOldest   TopicOrder = "oldest"
	TopicPosition TopicOrder = "position"
)

// ListTopics returns a page of topics.
func (c *Client) ListTopics(ctx context.Context, page, perPage int, order TopicOrder) (Result[domain.Topic], error) {
	q := pageQuery(page, perPage)
	if order != "" {
		q.Set("order_by", string(order))
	}
	var resp []apiTopic
	h, err := c.get(ctx, "list topics", "/topics", q, &resp)
	if err != nil {
		return Result[domain.Topic]{}, err
	}
	return listResult(mapSlice(resp, apiTopic.toDomain), page, perPage, h), nil
}

// GetTopic returns a topic by ID or slug.
func (c *Client) GetTopic(ctx context.Context, idOrSlug string) (domain.Topic, error) {
	var resp apiTopic
	if _, err := c.get(ctx, "get topic", "/topics/"+url.PathEscape(idOrSlug), nil, &resp); err != nil {
		return domain.Topic{}, err
	}
	return resp.toDomain(), nil
}

// TopicPhotos returns a page of a topic's photos.
func (c *Client) TopicPhotos(ctx context.Context, idOrSlug string, page, perPage int, order ListOrder) (Result[domain.Photo], error) {
	q := pageQuery(page, perPage)
	if order != "" {
		q.Set("order_by", string(order))
	}
	var resp []apiPhoto
	path := "/topics/" + url.PathEscape(idOrSlug) + "/photos"
	h, err := c.get(ctx, "topic photos", path, q, &resp)
	if err != nil {
		return Result[domain.Photo]{}, err
	}
	return listResult(mapSlice(resp, apiPhoto.toDomain), page, perPage, h), nil
}

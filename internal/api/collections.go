package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

// ListCollections fetches every collection.
func (c *Client) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	var out []domain.Collection
	err := c.do(ctx, call{method: http.MethodGet, path: "/collections", result: &out})
	if out == nil {
		out = []domain.Collection{}
	}
	return out, err
}

// CreateCollection creates a collection. The remote API takes the bare name
// as a text/plain body.
func (c *Client) CreateCollection(ctx context.Context, name string) (domain.Collection, error) {
	var out domain.Collection
	err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/collections",
		body:        name,
		contentType: "text/plain",
		result:      &out,
	})
	return out, err
}

// AddToCollection adds one resource.
func (c *Client) AddToCollection(ctx context.Context, collectionID, resourceID string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/collections/" + url.PathEscape(collectionID) + "/add/" + url.PathEscape(resourceID),
	})
}

// RemoveFromCollection removes one resource.
func (c *Client) RemoveFromCollection(ctx context.Context, collectionID, resourceID string) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/collections/" + url.PathEscape(collectionID) + "/remove/" + url.PathEscape(resourceID),
	})
}

// AddManyToCollection adds several resources in one request.
func (c *Client) AddManyToCollection(ctx context.Context, collectionID string, resourceIDs []string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/collections/" + url.PathEscape(collectionID) + "/add-multiple",
		body:   resourceIDs,
	})
}

// DeleteCollection deletes a collection. Member resources are kept.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/collections/" + url.PathEscape(collectionID)})
}

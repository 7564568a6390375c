package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

// ListResources fetches active (archived=false) or archived resources.
func (c *Client) ListResources(ctx context.Context, archived bool) ([]domain.Resource, error) {
	var out []domain.Resource
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/resources",
		query:  map[string]string{"archived": boolParam(archived)},
		result: &out,
	})
	return nonNil(out), err
}

// FilterResources runs a server-side filter.
func (c *Client) FilterResources(ctx context.Context, req FilterRequest) ([]domain.Resource, error) {
	var out []domain.Resource
	err := c.do(ctx, call{method: http.MethodPost, path: "/resources/filter", body: req, result: &out})
	return nonNil(out), err
}

// ListTrash fetches trashed resources.
func (c *Client) ListTrash(ctx context.Context) ([]domain.Resource, error) {
	var out []domain.Resource
	err := c.do(ctx, call{method: http.MethodGet, path: "/resources/trash", result: &out})
	return nonNil(out), err
}

// CreateResource stores a new resource.
func (c *Client) CreateResource(ctx context.Context, req CreateResourceRequest) (domain.Resource, error) {
	var out domain.Resource
	err := c.do(ctx, call{method: http.MethodPost, path: "/resources", body: req, result: &out})
	return out, err
}

// UpdateResource replaces the editable fields of a resource.
func (c *Client) UpdateResource(ctx context.Context, id string, req UpdateResourceRequest) (domain.Resource, error) {
	var out domain.Resource
	err := c.do(ctx, call{method: http.MethodPut, path: "/resources/" + url.PathEscape(id), body: req, result: &out})
	return out, err
}

// DeleteResource moves a resource to the trash.
func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/resources/" + url.PathEscape(id)})
}

// ToggleArchive flips the archive flag.
func (c *Client) ToggleArchive(ctx context.Context, id string) (domain.Resource, error) {
	return c.transition(ctx, id, "archive")
}

// TogglePin flips the pin flag.
func (c *Client) TogglePin(ctx context.Context, id string) (domain.Resource, error) {
	return c.transition(ctx, id, "pin")
}

// Restore brings a trashed resource back.
func (c *Client) Restore(ctx context.Context, id string) (domain.Resource, error) {
	return c.transition(ctx, id, "restore")
}

func (c *Client) transition(ctx context.Context, id, action string) (domain.Resource, error) {
	var out domain.Resource
	err := c.do(ctx, call{method: http.MethodPut, path: "/resources/" + url.PathEscape(id) + "/" + action, result: &out})
	return out, err
}

// PermanentDelete purges a trashed resource.
func (c *Client) PermanentDelete(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/resources/" + url.PathEscape(id) + "/permanent"})
}

// EmptyTrash purges every trashed resource.
func (c *Client) EmptyTrash(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/resources/trash/empty"})
}

// BulkDelete moves ids to the trash in one request.
func (c *Client) BulkDelete(ctx context.Context, ids []string) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/resources/bulk-delete", body: ids})
}

// BulkArchive archives (or unarchives) ids in one request.
func (c *Client) BulkArchive(ctx context.Context, ids []string, archive bool) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/resources/bulk/archive",
		query:  map[string]string{"archive": boolParam(archive)},
		body:   ids,
	})
}

// LifetimeStats fetches the remote counters.
func (c *Client) LifetimeStats(ctx context.Context) (domain.LifetimeStats, error) {
	var out domain.LifetimeStats
	err := c.do(ctx, call{method: http.MethodGet, path: "/resources/stats", result: &out})
	return out, err
}

// Metadata fetches link preview data. Lookups wait on the metadata rate limit.
func (c *Client) Metadata(ctx context.Context, rawURL string) (domain.Metadata, error) {
	var out domain.Metadata
	if err := c.metaLimiter.Wait(ctx); err != nil {
		return out, err
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/resources/metadata",
		query:  map[string]string{"url": rawURL},
		result: &out,
	})
	return out, err
}

func nonNil(list []domain.Resource) []domain.Resource {
	if list == nil {
		return []domain.Resource{}
	}
	return list
}

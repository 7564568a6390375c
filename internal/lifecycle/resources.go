package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/khub/internal/api"
	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

var errNoConfirmer = huberrors.ErrDeclined.WithDetails("no confirmation step configured")

// emptyTrashKey reserves the trash as a whole while it is being emptied.
const emptyTrashKey = "*trash"

// ToggleArchive moves a resource between the active and archived scopes. It
// leaves the current view immediately.
func (c *Controller) ToggleArchive(ctx context.Context, id string) error {
	if _, err := c.lookup(id, domain.ActionArchive); err != nil {
		return err
	}
	return c.tentative(ctx, change{
		what:  "archive resource",
		keys:  []string{id},
		apply: removeIDs(id),
		remote: func(ctx context.Context) error {
			_, err := c.remote.ToggleArchive(ctx, id)
			return err
		},
	})
}

// TogglePin flips the pin flag. Pinning is not offered in the trash.
func (c *Controller) TogglePin(ctx context.Context, id string) error {
	if _, err := c.lookup(id, domain.ActionPin); err != nil {
		return err
	}
	var updated domain.Resource
	err := c.tentative(ctx, change{
		what:  "pin resource",
		keys:  []string{id},
		apply: updateID(id, func(r *domain.Resource) { r.IsPinned = !r.IsPinned }),
		remote: func(ctx context.Context) error {
			var err error
			updated, err = c.remote.TogglePin(ctx, id)
			return err
		},
	})
	if err == nil && updated.ID == id {
		c.list.Upsert(updated)
	}
	return err
}

// Delete moves a resource to the trash after confirmation.
func (c *Controller) Delete(ctx context.Context, id string) error {
	r, err := c.lookup(id, domain.ActionDelete)
	if err != nil {
		return err
	}
	return c.tentative(ctx, change{
		what:   "delete resource",
		keys:   []string{id},
		prompt: &Prompt{Action: domain.ActionDelete, IDs: []string{id}, Message: fmt.Sprintf("Move %q to the trash?", r.Title)},
		apply:  removeIDs(id),
		remote: func(ctx context.Context) error { return c.remote.DeleteResource(ctx, id) },
	})
}

// Restore brings a trashed resource back to the active scope.
func (c *Controller) Restore(ctx context.Context, id string) error {
	if _, err := c.lookup(id, domain.ActionRestore); err != nil {
		return err
	}
	return c.tentative(ctx, change{
		what:  "restore resource",
		keys:  []string{id},
		apply: removeIDs(id),
		remote: func(ctx context.Context) error {
			_, err := c.remote.Restore(ctx, id)
			return err
		},
	})
}

// PermanentDelete purges a trashed resource after confirmation.
func (c *Controller) PermanentDelete(ctx context.Context, id string) error {
	r, err := c.lookup(id, domain.ActionPermanentDelete)
	if err != nil {
		return err
	}
	return c.tentative(ctx, change{
		what:   "delete resource permanently",
		keys:   []string{id},
		prompt: &Prompt{Action: domain.ActionPermanentDelete, IDs: []string{id}, Message: fmt.Sprintf("Permanently delete %q? This cannot be undone.", r.Title)},
		apply:  removeIDs(id),
		remote: func(ctx context.Context) error { return c.remote.PermanentDelete(ctx, id) },
	})
}

// EmptyTrash purges every trashed resource after confirmation.
func (c *Controller) EmptyTrash(ctx context.Context) error {
	if !c.list.Scope().Allows(domain.ActionEmptyTrash) {
		return huberrors.InvalidState("the trash can only be emptied from the trash view")
	}
	ids := c.list.IDs()
	return c.tentative(ctx, change{
		what:   "empty trash",
		keys:   append([]string{emptyTrashKey}, ids...),
		prompt: &Prompt{Action: domain.ActionEmptyTrash, IDs: ids, Message: fmt.Sprintf("Permanently delete all %d items in the trash?", len(ids))},
		apply:  clearAll,
		remote: c.remote.EmptyTrash,
	})
}

// BulkDelete trashes the selected resources after confirmation. Failure
// restores every one of them.
func (c *Controller) BulkDelete(ctx context.Context) error {
	ids, err := c.bulkTargets(domain.ActionBulkDelete)
	if err != nil {
		return err
	}
	err = c.tentative(ctx, change{
		what:   fmt.Sprintf("delete %d resources", len(ids)),
		keys:   ids,
		prompt: &Prompt{Action: domain.ActionBulkDelete, IDs: ids, Message: fmt.Sprintf("Move %d resources to the trash?", len(ids))},
		apply:  removeIDs(ids...),
		remote: func(ctx context.Context) error { return c.remote.BulkDelete(ctx, ids) },
	})
	if err == nil {
		c.selection.Clear()
	}
	return err
}

// BulkArchive archives (or unarchives) the selected resources. Resources
// whose state changes leave the current view.
func (c *Controller) BulkArchive(ctx context.Context, archive bool) error {
	ids, err := c.bulkTargets(domain.ActionBulkArchive)
	if err != nil {
		return err
	}
	verb := "archive"
	if !archive {
		verb = "unarchive"
	}
	err = c.tentative(ctx, change{
		what: fmt.Sprintf("%s %d resources", verb, len(ids)),
		keys: ids,
		apply: func(list []domain.Resource) []domain.Resource {
			return slices.DeleteFunc(list, func(r domain.Resource) bool {
				return slices.Contains(ids, r.ID) && r.IsArchived != archive
			})
		},
		remote: func(ctx context.Context) error { return c.remote.BulkArchive(ctx, ids, archive) },
	})
	if err == nil {
		c.selection.Clear()
	}
	return err
}

func (c *Controller) bulkTargets(action domain.Action) ([]string, error) {
	if !c.list.Scope().Allows(action) {
		return nil, huberrors.InvalidState(fmt.Sprintf("%s is not available in the %s view", action, c.list.Scope()))
	}
	ids := c.selection.IDs()
	if len(ids) == 0 {
		return nil, huberrors.Validation("no resources selected")
	}
	return ids, nil
}

// lookup finds id in the list and checks the current scope offers action.
func (c *Controller) lookup(id string, action domain.Action) (domain.Resource, error) {
	scope := c.list.Scope()
	if !scope.Allows(action) {
		return domain.Resource{}, huberrors.InvalidState(fmt.Sprintf("%s is not available in the %s view", action, scope))
	}
	r, ok := c.list.Get(id)
	if !ok {
		return domain.Resource{}, huberrors.NotFound("resource " + id + " is not in the current view")
	}
	return r, nil
}

// ─────────────────────────────────────────────────────────────────
// Create & edit
// ─────────────────────────────────────────────────────────────────

// Draft is user input for a new resource. Tags is the raw comma separated
// text of the tag field.
type Draft struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Note     string `json:"note"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
}

// ParseTags splits comma separated tags, trimming blanks away.
func ParseTags(raw string) []string {
	out := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Create validates the draft, stores it remotely and adds the result to the
// list when it belongs to the current view. Nothing is sent when the draft
// is invalid.
func (c *Controller) Create(ctx context.Context, d Draft) (domain.Resource, error) {
	req := api.CreateResourceRequest{
		URL:      domain.EnsureProtocol(d.URL),
		Title:    strings.TrimSpace(d.Title),
		Note:     d.Note,
		Category: strings.TrimSpace(d.Category),
		Tags:     ParseTags(d.Tags),
	}
	if err := c.validate.Validate(req); err != nil {
		return domain.Resource{}, err
	}
	if req.Title == "" {
		req.Title = domain.Hostname(req.URL)
	}

	epoch := c.list.Epoch()
	created, err := c.remote.CreateResource(ctx, req)
	if err != nil {
		c.fail("save resource", err)
		return domain.Resource{}, err
	}

	if c.list.Epoch() == epoch && c.list.Scope().InScope(created) {
		c.list.Prepend(created)
	}
	c.logger.Info("resource created",
		logger.String("id", created.ID),
		logger.String("source", domain.Classify(created.URL).ID))
	return created, nil
}

// Edit is user input for an existing resource.
type Edit struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Note     string   `json:"note"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Update applies the edit optimistically and rolls it back on failure.
// Title, URL and category are required.
func (c *Controller) Update(ctx context.Context, id string, e Edit) error {
	req := api.UpdateResourceRequest{
		URL:      strings.TrimSpace(e.URL),
		Title:    strings.TrimSpace(e.Title),
		Note:     e.Note,
		Category: strings.TrimSpace(e.Category),
		Tags:     e.Tags,
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if err := c.validate.Validate(req); err != nil {
		return err
	}
	if _, err := c.lookup(id, domain.ActionEdit); err != nil {
		return err
	}

	var updated domain.Resource
	err := c.tentative(ctx, change{
		what: "update resource",
		keys: []string{id},
		apply: updateID(id, func(r *domain.Resource) {
			r.URL = req.URL
			r.Title = req.Title
			r.Note = req.Note
			r.Category = req.Category
			r.Tags = slices.Clone(req.Tags)
		}),
		remote: func(ctx context.Context) error {
			var err error
			updated, err = c.remote.UpdateResource(ctx, id, req)
			return err
		},
	})
	if err == nil && updated.ID == id {
		c.list.Upsert(updated)
	}
	return err
}

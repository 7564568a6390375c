package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/khub/internal/api"
	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/session"
	"github.com/MrSnakeDoc/khub/internal/validation"
)

// Remote is the part of the REST API the controller drives.
type Remote interface {
	ListResources(ctx context.Context, archived bool) ([]domain.Resource, error)
	FilterResources(ctx context.Context, req api.FilterRequest) ([]domain.Resource, error)
	ListTrash(ctx context.Context) ([]domain.Resource, error)

	CreateResource(ctx context.Context, req api.CreateResourceRequest) (domain.Resource, error)
	UpdateResource(ctx context.Context, id string, req api.UpdateResourceRequest) (domain.Resource, error)
	DeleteResource(ctx context.Context, id string) error
	ToggleArchive(ctx context.Context, id string) (domain.Resource, error)
	TogglePin(ctx context.Context, id string) (domain.Resource, error)
	Restore(ctx context.Context, id string) (domain.Resource, error)
	PermanentDelete(ctx context.Context, id string) error
	EmptyTrash(ctx context.Context) error
	BulkDelete(ctx context.Context, ids []string) error
	BulkArchive(ctx context.Context, ids []string, archive bool) error

	ListCollections(ctx context.Context) ([]domain.Collection, error)
	CreateCollection(ctx context.Context, name string) (domain.Collection, error)
	AddToCollection(ctx context.Context, collectionID, resourceID string) error
	RemoveFromCollection(ctx context.Context, collectionID, resourceID string) error
	AddManyToCollection(ctx context.Context, collectionID string, resourceIDs []string) error
	DeleteCollection(ctx context.Context, collectionID string) error
}

// Options tunes the controller.
type Options struct {
	NoticeTTL time.Duration
	Now       func() time.Time
}

// LoadQuery selects the base collection fetched from the remote API.
type LoadQuery struct {
	Scope domain.ViewScope `json:"scope"`
	// Filter and CollectionID are sent to the remote filter endpoint when a
	// collection is selected.
	Filter       domain.FilterSpec `json:"filters"`
	CollectionID string            `json:"collectionId,omitempty"`
}

// Controller drives the resource lifecycle over the shared resource list.
// Mutations are applied to the list before the remote call and rolled back
// when it fails.
type Controller struct {
	remote    Remote
	list      *index.ResourceList
	confirm   Confirmer
	validate  *validation.Validator
	guard     *inflight
	notices   *Notifier
	selection *Selection
	logger    logger.Logger
	now       func() time.Time

	queryMu sync.Mutex
	query   LoadQuery
}

// New creates a controller. A nil confirmer declines every gated action.
func New(remote Remote, list *index.ResourceList, confirm Confirmer, log logger.Logger, opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		remote:    remote,
		list:      list,
		confirm:   confirm,
		validate:  validation.New(),
		guard:     newInflight(),
		notices:   NewNotifier(opts.NoticeTTL, now),
		selection: NewSelection(),
		logger:    log,
		now:       now,
		query:     LoadQuery{Scope: domain.ScopeActive},
	}
}

// List exposes the resource list.
func (c *Controller) List() *index.ResourceList { return c.list }

// Notices exposes the banner.
func (c *Controller) Notices() *Notifier { return c.notices }

// Selection exposes the bulk selection.
func (c *Controller) Selection() *Selection { return c.selection }

// Query returns the query of the last load.
func (c *Controller) Query() LoadQuery {
	c.queryMu.Lock()
	defer c.queryMu.Unlock()
	return c.query
}

// Pending lists the keys of mutations waiting on the remote API.
func (c *Controller) Pending() []string {
	return c.guard.pending()
}

// Load fetches the base collection for q and replaces the list. A result
// that arrives after a newer load started is dropped.
func (c *Controller) Load(ctx context.Context, q LoadQuery) error {
	if q.Scope == "" {
		q.Scope = domain.ScopeActive
	}
	if err := q.Filter.Validate(); err != nil {
		return huberrors.Validation(err.Error())
	}

	gen := c.list.BeginLoad()
	c.queryMu.Lock()
	c.query = q
	c.queryMu.Unlock()

	items, err := c.fetch(ctx, q)
	if err != nil {
		c.fail("load resources", err)
		return err
	}

	if !c.list.Replace(gen, q.Scope, items) {
		c.logger.Debug("dropping stale load result",
			logger.String("scope", string(q.Scope)),
			logger.Uint64("generation", gen))
		return nil
	}
	c.selection.Retain(c.list.IDs())

	c.logger.Debug("resources loaded",
		logger.String("scope", string(q.Scope)),
		logger.Int("count", len(items)))
	return nil
}

// Reload repeats the last load. It supersedes any optimistic state.
func (c *Controller) Reload(ctx context.Context) error {
	return c.Load(ctx, c.Query())
}

func (c *Controller) fetch(ctx context.Context, q LoadQuery) ([]domain.Resource, error) {
	switch {
	case q.Scope == domain.ScopeTrash:
		return c.remote.ListTrash(ctx)
	case q.CollectionID != "":
		return c.remote.FilterResources(ctx, api.FilterRequest{
			FilterSpec:   q.Filter,
			IsArchived:   q.Scope == domain.ScopeArchived,
			CollectionID: q.CollectionID,
		})
	default:
		return c.remote.ListResources(ctx, q.Scope == domain.ScopeArchived)
	}
}

// Teardown drops all user state. It is registered as a session end hook.
func (c *Controller) Teardown(reason session.EndReason) {
	c.list.Clear()
	c.selection.Clear()
	if reason == session.ReasonExpired {
		c.notices.Post(LevelWarning, "Your session expired. Please log in again.")
	} else {
		c.notices.Dismiss()
	}
	c.logger.Info("view state cleared", logger.String("reason", string(reason)))
}

// fail posts the banner for a failed remote call. Session expiry is handled
// by the session teardown instead.
func (c *Controller) fail(what string, err error) {
	if huberrors.Is(err, huberrors.ErrSessionExpired) {
		return
	}
	c.logger.Warn("remote call failed",
		logger.String("operation", what),
		logger.Error(err))
	c.notices.Post(LevelError, "Failed to "+what+". Please try again.")
}

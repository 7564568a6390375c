package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/khub/internal/api"
	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

// fakeRemote records calls and lets a test fail or block any method.
type fakeRemote struct {
	mu       sync.Mutex
	active   []domain.Resource
	archived []domain.Resource
	trash    []domain.Resource
	cols     []domain.Collection
	calls    []string
	fail     map[string]error
	gates    map[string]chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		fail:  map[string]error{},
		gates: map[string]chan struct{}{},
	}
}

// hold makes method block until the returned func is called.
func (f *fakeRemote) hold(method string) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[method] = ch
	return func() { close(ch) }
}

func (f *fakeRemote) failWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = err
}

func (f *fakeRemote) called(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeRemote) enter(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	gate := f.gates[method]
	err := f.fail[method]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeRemote) ListResources(ctx context.Context, archived bool) ([]domain.Resource, error) {
	if err := f.enter(ctx, "ListResources"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if archived {
		return domain.CloneAll(f.archived), nil
	}
	return domain.CloneAll(f.active), nil
}

func (f *fakeRemote) FilterResources(ctx context.Context, req api.FilterRequest) ([]domain.Resource, error) {
	if err := f.enter(ctx, "FilterResources"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Resource
	for _, r := range f.active {
		if hasCollection(r, req.CollectionID) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (f *fakeRemote) ListTrash(ctx context.Context) ([]domain.Resource, error) {
	if err := f.enter(ctx, "ListTrash"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.CloneAll(f.trash), nil
}

func (f *fakeRemote) CreateResource(ctx context.Context, req api.CreateResourceRequest) (domain.Resource, error) {
	if err := f.enter(ctx, "CreateResource"); err != nil {
		return domain.Resource{}, err
	}
	return domain.Resource{ID: "new", URL: req.URL, Title: req.Title, Category: req.Category, Tags: req.Tags, CreatedAt: time.Now()}, nil
}

func (f *fakeRemote) UpdateResource(ctx context.Context, id string, req api.UpdateResourceRequest) (domain.Resource, error) {
	if err := f.enter(ctx, "UpdateResource"); err != nil {
		return domain.Resource{}, err
	}
	return domain.Resource{ID: id, URL: req.URL, Title: req.Title, Category: req.Category, Tags: req.Tags, Note: req.Note}, nil
}

func (f *fakeRemote) DeleteResource(ctx context.Context, _ string) error {
	return f.enter(ctx, "DeleteResource")
}

func (f *fakeRemote) ToggleArchive(ctx context.Context, id string) (domain.Resource, error) {
	return domain.Resource{ID: id}, f.enter(ctx, "ToggleArchive")
}

func (f *fakeRemote) TogglePin(ctx context.Context, id string) (domain.Resource, error) {
	if err := f.enter(ctx, "TogglePin"); err != nil {
		return domain.Resource{}, err
	}
	return domain.Resource{}, nil
}

func (f *fakeRemote) Restore(ctx context.Context, id string) (domain.Resource, error) {
	return domain.Resource{ID: id}, f.enter(ctx, "Restore")
}

func (f *fakeRemote) PermanentDelete(ctx context.Context, _ string) error {
	return f.enter(ctx, "PermanentDelete")
}

func (f *fakeRemote) EmptyTrash(ctx context.Context) error {
	return f.enter(ctx, "EmptyTrash")
}

func (f *fakeRemote) BulkDelete(ctx context.Context, _ []string) error {
	return f.enter(ctx, "BulkDelete")
}

func (f *fakeRemote) BulkArchive(ctx context.Context, _ []string, _ bool) error {
	return f.enter(ctx, "BulkArchive")
}

func (f *fakeRemote) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	if err := f.enter(ctx, "ListCollections"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Collection{}, f.cols...), nil
}

func (f *fakeRemote) CreateCollection(ctx context.Context, name string) (domain.Collection, error) {
	if err := f.enter(ctx, "CreateCollection"); err != nil {
		return domain.Collection{}, err
	}
	return domain.Collection{ID: "col-" + name, Name: name}, nil
}

func (f *fakeRemote) AddToCollection(ctx context.Context, _, _ string) error {
	return f.enter(ctx, "AddToCollection")
}

func (f *fakeRemote) RemoveFromCollection(ctx context.Context, _, _ string) error {
	return f.enter(ctx, "RemoveFromCollection")
}

func (f *fakeRemote) AddManyToCollection(ctx context.Context, _ string, _ []string) error {
	return f.enter(ctx, "AddManyToCollection")
}

func (f *fakeRemote) DeleteCollection(ctx context.Context, _ string) error {
	return f.enter(ctx, "DeleteCollection")
}

// ─────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func seed() []domain.Resource {
	return []domain.Resource{
		{ID: "r1", URL: "https://github.com/golang/go", Title: "Go", Category: "Lang", Tags: []string{"go"}, CreatedAt: testNow.Add(-time.Hour)},
		{ID: "r2", URL: "https://youtube.com/watch?v=1", Title: "Talk", Category: "Video", CreatedAt: testNow.Add(-2 * time.Hour), IsPinned: true},
		{ID: "r3", URL: "https://example.com", Title: "Blog", CreatedAt: testNow.Add(-3 * time.Hour)},
	}
}

func trashSeed() []domain.Resource {
	deleted := testNow.Add(-24 * time.Hour)
	return []domain.Resource{
		{ID: "t1", URL: "https://medium.com/a", Title: "Old", IsDeleted: true, DeletedAt: &deleted, CreatedAt: testNow.Add(-48 * time.Hour)},
		{ID: "t2", URL: "https://dev.to/b", Title: "Older", IsDeleted: true, DeletedAt: &deleted, CreatedAt: testNow.Add(-72 * time.Hour)},
	}
}

func always(context.Context, Prompt) (bool, error) { return true, nil }
func never(context.Context, Prompt) (bool, error)  { return false, nil }

// newController returns a controller with the active scope loaded.
func newController(t *testing.T, confirm Confirmer) (*Controller, *fakeRemote) {
	t.Helper()
	remote := newFakeRemote()
	remote.active = seed()
	remote.trash = trashSeed()
	remote.cols = []domain.Collection{{ID: "c1", Name: "Reading"}}

	c := New(remote, index.NewResourceList(), confirm, logger.NewNop(), Options{Now: func() time.Time { return testNow }})
	require.NoError(t, c.Load(context.Background(), LoadQuery{Scope: domain.ScopeActive}))
	return c, remote
}

func errServer() error { return huberrors.Server(500, "boom") }

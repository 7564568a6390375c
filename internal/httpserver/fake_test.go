package httpserver

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/khub/internal/api"
	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/session"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeRemote is an in-memory stand-in for the remote REST API. It serves
// both the controller and the handlers.
type fakeRemote struct {
	mu     sync.Mutex
	sess   *session.Session
	active []domain.Resource
	trash  []domain.Resource
	cols   []domain.Collection
	fail   map[string]error
	calls  map[string]int
}

func newFakeRemote(sess *session.Session) *fakeRemote {
	return &fakeRemote{
		sess: sess,
		active: []domain.Resource{
			{ID: "r1", URL: "https://github.com/go-chi/chi", Title: "chi", Category: "go", Tags: []string{"router"}, CreatedAt: testNow.Add(-48 * time.Hour)},
			{ID: "r2", URL: "https://www.youtube.com/watch?v=1", Title: "talk", Category: "video", Tags: []string{"talk"}, IsPinned: true, CreatedAt: testNow.Add(-24 * time.Hour)},
			{ID: "r3", URL: "https://go.dev/blog", Title: "blog", Category: "go", Tags: []string{"router", "blog"}, CreatedAt: testNow.Add(-time.Hour)},
		},
		cols:  []domain.Collection{{ID: "c1", Name: "Reading", CreatedAt: testNow}},
		fail:  map[string]error{},
		calls: map[string]int{},
	}
}

func (f *fakeRemote) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.fail[method]
}

func (f *fakeRemote) failWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = err
}

func (f *fakeRemote) called(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeRemote) ListResources(_ context.Context, archived bool) ([]domain.Resource, error) {
	if err := f.enter("ListResources"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Resource{}
	for _, r := range f.active {
		if r.IsArchived == archived {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (f *fakeRemote) FilterResources(ctx context.Context, req api.FilterRequest) ([]domain.Resource, error) {
	return f.ListResources(ctx, req.IsArchived)
}

func (f *fakeRemote) ListTrash(context.Context) ([]domain.Resource, error) {
	if err := f.enter("ListTrash"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.CloneAll(f.trash), nil
}

func (f *fakeRemote) CreateResource(_ context.Context, req api.CreateResourceRequest) (domain.Resource, error) {
	if err := f.enter("CreateResource"); err != nil {
		return domain.Resource{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := domain.Resource{
		ID:        "new1",
		URL:       req.URL,
		Title:     req.Title,
		Note:      req.Note,
		Category:  req.Category,
		Tags:      req.Tags,
		CreatedAt: testNow,
	}
	f.active = append(f.active, r)
	return r, nil
}

func (f *fakeRemote) UpdateResource(_ context.Context, id string, req api.UpdateResourceRequest) (domain.Resource, error) {
	if err := f.enter("UpdateResource"); err != nil {
		return domain.Resource{}, err
	}
	return domain.Resource{ID: id, URL: req.URL, Title: req.Title, Category: req.Category, Tags: req.Tags, CreatedAt: testNow}, nil
}

func (f *fakeRemote) DeleteResource(context.Context, string) error { return f.enter("DeleteResource") }

func (f *fakeRemote) ToggleArchive(_ context.Context, id string) (domain.Resource, error) {
	return domain.Resource{ID: id}, f.enter("ToggleArchive")
}

func (f *fakeRemote) TogglePin(_ context.Context, id string) (domain.Resource, error) {
	return domain.Resource{}, f.enter("TogglePin")
}

func (f *fakeRemote) Restore(_ context.Context, id string) (domain.Resource, error) {
	return domain.Resource{ID: id}, f.enter("Restore")
}

func (f *fakeRemote) PermanentDelete(context.Context, string) error {
	return f.enter("PermanentDelete")
}
func (f *fakeRemote) EmptyTrash(context.Context) error           { return f.enter("EmptyTrash") }
func (f *fakeRemote) BulkDelete(context.Context, []string) error { return f.enter("BulkDelete") }

func (f *fakeRemote) BulkArchive(context.Context, []string, bool) error {
	return f.enter("BulkArchive")
}

func (f *fakeRemote) ListCollections(context.Context) ([]domain.Collection, error) {
	if err := f.enter("ListCollections"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.cols), nil
}

func (f *fakeRemote) CreateCollection(_ context.Context, name string) (domain.Collection, error) {
	if err := f.enter("CreateCollection"); err != nil {
		return domain.Collection{}, err
	}
	return domain.Collection{ID: "c2", Name: name, CreatedAt: testNow}, nil
}

func (f *fakeRemote) AddToCollection(context.Context, string, string) error {
	return f.enter("AddToCollection")
}

func (f *fakeRemote) RemoveFromCollection(context.Context, string, string) error {
	return f.enter("RemoveFromCollection")
}

func (f *fakeRemote) AddManyToCollection(context.Context, string, []string) error {
	return f.enter("AddManyToCollection")
}

func (f *fakeRemote) DeleteCollection(context.Context, string) error {
	return f.enter("DeleteCollection")
}

// Handler side.

func (f *fakeRemote) Login(_ context.Context, creds api.Credentials) (session.User, error) {
	if err := f.enter("Login"); err != nil {
		return session.User{}, err
	}
	if creds.Password != "secret" {
		return session.User{}, huberrors.Validation("invalid email or password")
	}
	user := session.User{ID: "u1", Email: creds.Email}
	f.sess.Begin("tok", user)
	return user, nil
}

func (f *fakeRemote) Register(context.Context, api.RegisterRequest) error { return f.enter("Register") }

func (f *fakeRemote) Refresh(context.Context) error {
	if err := f.enter("Refresh"); err != nil {
		return err
	}
	// Logout revokes the refresh cookie remotely.
	if st := f.sess.Status(); !st.Active && st.LastEnd == session.ReasonLogout {
		return huberrors.SessionExpired(http.StatusUnauthorized)
	}
	f.sess.Refresh("tok2")
	return nil
}

func (f *fakeRemote) Logout(context.Context) error {
	err := f.enter("Logout")
	f.sess.End(session.ReasonLogout)
	return err
}

func (f *fakeRemote) LifetimeStats(context.Context) (domain.LifetimeStats, error) {
	return domain.LifetimeStats{}, f.enter("LifetimeStats")
}

func (f *fakeRemote) Metadata(_ context.Context, rawURL string) (domain.Metadata, error) {
	if err := f.enter("Metadata"); err != nil {
		return domain.Metadata{}, err
	}
	return domain.Metadata{Title: "Title of " + rawURL}, nil
}

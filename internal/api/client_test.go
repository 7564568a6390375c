package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/session"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	sess := session.New()
	c := New(Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second, MetadataRPS: 100, MetadataBurst: 10}, sess, logger.New("error", false))
	return c, sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListResourcesSendsTokenAndQuery(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resources", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("archived"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, []domain.Resource{{ID: "r1", URL: "https://github.com/x"}})
	}))
	sess.Begin("tok", session.User{})

	list, err := c.ListResources(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)
}

func TestUnauthorizedEndsSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]string{"message": "nope"})
		}))
		sess.Begin("tok", session.User{})

		ended := false
		sess.OnEnd(func(r session.EndReason) { ended = r == session.ReasonExpired })

		_, err := c.TogglePin(context.Background(), "r1")
		require.Error(t, err)
		assert.True(t, huberrors.Is(err, huberrors.ErrSessionExpired), "status %d", status)
		assert.False(t, sess.Active())
		assert.True(t, ended)
	}
}

func TestRefreshAfterExpiryResumesSession(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			assert.Empty(t, r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]string{"accessToken": "fresh"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "expired"})
	}))
	sess.Begin("stale", session.User{ID: "u1", Email: "a@b.c"})

	_, err := c.ListResources(context.Background(), false)
	require.True(t, huberrors.Is(err, huberrors.ErrSessionExpired))
	require.False(t, sess.Active())

	require.NoError(t, c.Refresh(context.Background()))
	tok, ok := sess.Token()
	assert.True(t, ok)
	assert.Equal(t, "fresh", tok)
	assert.Equal(t, "u1", sess.User().ID)
}

func TestRefreshWithoutTokenIsServerError(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	}))
	sess.Begin("tok", session.User{})

	err := c.Refresh(context.Background())
	assert.True(t, huberrors.Is(err, huberrors.ErrServer))
	tok, _ := sess.Token()
	assert.Equal(t, "tok", tok)
}

func TestServerErrorCarriesStatusAndMessage(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
	}))

	err := c.DeleteResource(context.Background(), "r1")
	require.Error(t, err)

	var coded *huberrors.Error
	require.True(t, huberrors.As(err, &coded))
	assert.Equal(t, huberrors.CodeServer, coded.Code)
	assert.Equal(t, http.StatusInternalServerError, coded.Status)
	assert.Equal(t, "db down", coded.Message)
	assert.Equal(t, int32(1), calls.Load(), "failed requests must not be retried")
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(Options{BaseURL: base, Timeout: time.Second}, session.New(), logger.New("error", false))
	_, err := c.ListTrash(context.Background())
	require.Error(t, err)
	assert.True(t, huberrors.Is(err, huberrors.ErrNetwork))
}

func TestBulkArchiveBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/resources/bulk/archive", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("archive"))
		var ids []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		assert.Equal(t, []string{"a", "b"}, ids)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.BulkArchive(context.Background(), []string{"a", "b"}, false))
}

func TestFilterRequestFlattensSpec(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "7", body["dateRange"])
		assert.Equal(t, true, body["isArchived"])
		assert.Equal(t, "c1", body["collectionId"])
		writeJSON(w, http.StatusOK, []domain.Resource{})
	}))

	list, err := c.FilterResources(context.Background(), FilterRequest{
		FilterSpec:   domain.FilterSpec{DateRange: domain.RangeWeek},
		IsArchived:   true,
		CollectionID: "c1",
	})
	require.NoError(t, err)
	assert.NotNil(t, list)
}

func TestCreateCollectionSendsPlainText(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "Reading list", string(body))
		writeJSON(w, http.StatusOK, domain.Collection{ID: "c1", Name: "Reading list"})
	}))

	col, err := c.CreateCollection(context.Background(), "Reading list")
	require.NoError(t, err)
	assert.Equal(t, "c1", col.ID)
}

func TestLoginBeginsSession(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, AuthResponse{AccessToken: "fresh"})
	}))

	user, err := c.Login(context.Background(), Credentials{Email: "me@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)
	tok, ok := sess.Token()
	assert.True(t, ok)
	assert.Equal(t, "fresh", tok)
}

func TestLoginRejectedIsValidation(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}))

	_, err := c.Login(context.Background(), Credentials{Email: "me@example.com", Password: "bad"})
	require.Error(t, err)
	assert.True(t, huberrors.Is(err, huberrors.ErrValidation))
	assert.False(t, sess.Active())
}

func TestLogoutEndsSessionEvenOnFailure(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	sess.Begin("tok", session.User{})

	err := c.Logout(context.Background())
	assert.Error(t, err)
	assert.False(t, sess.Active())
}

func TestMetadataQueryEscaping(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://example.com/a?b=c", r.URL.Query().Get("url"))
		writeJSON(w, http.StatusOK, domain.Metadata{Title: "Example", FaviconURL: "https://example.com/favicon.ico"})
	}))

	md, err := c.Metadata(context.Background(), "https://example.com/a?b=c")
	require.NoError(t, err)
	assert.Equal(t, "Example", md.Title)
}

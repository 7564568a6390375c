package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/khub/internal/api"
	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/session"
)

type loginResponse struct {
	User session.User `json:"user"`
}

// Login starts a session, then runs the after-login hook (warm start and
// first load). A failing hook does not fail the login.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		if err := decodeJSON(w, r, &creds, false); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.Validator.Validate(creds); err != nil {
			writeError(w, r, d, err)
			return
		}

		user, err := d.API.Login(r.Context(), creds)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if d.AfterLogin != nil {
			if err := d.AfterLogin(r.Context(), user); err != nil {
				d.Logger.Warn("initial load after login failed", logger.Error(err))
			}
		}
		writeJSON(w, http.StatusOK, loginResponse{User: user})
	}
}

// Register creates an account without logging in.
func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.Validator.Validate(req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.API.Register(r.Context(), req); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// Logout ends the session. Session end hooks tear the controller down.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.API.Logout(r.Context()); err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}

// Refresh renews the access token on explicit request. When it resumes an
// expired session the after-login hook reloads the view.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wasActive := d.Session.Active()
		if err := d.API.Refresh(r.Context()); err != nil {
			writeError(w, r, d, err)
			return
		}
		if !wasActive && d.Session.Active() && d.AfterLogin != nil {
			if err := d.AfterLogin(r.Context(), d.Session.User()); err != nil {
				d.Logger.Warn("reload after session resume failed", logger.Error(err))
			}
		}
		writeJSON(w, http.StatusOK, d.Session.Status())
	}
}

// SessionStatus reports who is logged in. The token is never exposed.
func SessionStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Session.Status())
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/lifecycle"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

// ConfirmTokenHeader carries the token of a confirmation step.
const ConfirmTokenHeader = "X-Confirm-Token"

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error *huberrors.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the coded error, or INTERNAL for anything
// uncoded. Only 5xx answers are logged; the access log covers the rest.
func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	var e *huberrors.Error
	switch {
	case huberrors.As(err, &e):
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e = huberrors.Network(err)
	default:
		e = huberrors.Internal("unexpected error", err)
	}

	status := e.HTTPStatus()
	if status >= http.StatusInternalServerError {
		d.Logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.String("code", string(e.Code)),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: e})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched
// when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			if optional {
				return nil
			}
			return huberrors.Validation("request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return huberrors.Validation("request body too large")
		}
		return huberrors.Validation("invalid JSON body").WithCause(err)
	}
	return nil
}

// confirmed attaches the confirmation token header, if any, to the
// request context.
func confirmed(r *http.Request) context.Context {
	return lifecycle.WithConfirmToken(r.Context(), strings.TrimSpace(r.Header.Get(ConfirmTokenHeader)))
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

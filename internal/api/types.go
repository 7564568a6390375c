package api

import (
	"github.com/MrSnakeDoc/khub/internal/domain"
	"github.com/MrSnakeDoc/khub/internal/session"
)

// CreateResourceRequest is the body of POST /resources.
type CreateResourceRequest struct {
	URL      string   `json:"url" validate:"notblank,max=2048"`
	Title    string   `json:"title" validate:"max=500"`
	Note     string   `json:"note"`
	Category string   `json:"category" validate:"max=100"`
	Tags     []string `json:"tags"`
}

// UpdateResourceRequest is the body of PUT /resources/{id}.
type UpdateResourceRequest struct {
	URL      string   `json:"url" validate:"notblank,max=2048"`
	Title    string   `json:"title" validate:"notblank,max=500"`
	Note     string   `json:"note"`
	Category string   `json:"category" validate:"notblank,max=100"`
	Tags     []string `json:"tags"`
}

// FilterRequest is the body of POST /resources/filter.
type FilterRequest struct {
	domain.FilterSpec
	IsArchived   bool   `json:"isArchived"`
	CollectionID string `json:"collectionId,omitempty"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse is returned by login, register and refresh.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        session.User `json:"user"`
}

type remoteError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *remoteError) text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

package api

import (
	"context"
	"net/http"

	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/session"
)

// Login authenticates and begins the session.
func (c *Client) Login(ctx context.Context, creds Credentials) (session.User, error) {
	var out AuthResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: creds, result: &out, public: true}); err != nil {
		return session.User{}, err
	}
	if out.AccessToken == "" {
		return session.User{}, huberrors.Server(http.StatusBadGateway, "login response carried no access token")
	}
	if out.User.Email == "" {
		out.User.Email = creds.Email
	}
	c.session.Begin(out.AccessToken, out.User)
	c.logger.Info("session started", logger.String("email", out.User.Email))
	return out.User, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: req, public: true})
}

// Refresh exchanges the refresh cookie for a new access token. It works on
// an expired session too and resumes it. It is only called explicitly;
// failed requests are never retried behind the caller.
func (c *Client) Refresh(ctx context.Context) error {
	var out AuthResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/refresh", result: &out}); err != nil {
		return err
	}
	if out.AccessToken == "" {
		return huberrors.Server(http.StatusBadGateway, "refresh response carried no access token")
	}
	if c.session.Refresh(out.AccessToken) {
		c.logger.Info("session resumed", logger.String("email", c.session.User().Email))
	}
	return nil
}

// Logout tells the remote API and ends the session. The session ends even
// when the remote call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/logout"})
	c.session.End(session.ReasonLogout)
	if err != nil && !huberrors.Is(err, huberrors.ErrSessionExpired) {
		c.logger.Warn("remote logout failed", logger.Error(err))
		return err
	}
	return nil
}

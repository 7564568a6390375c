package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/session"
)

// Options configures the REST client.
type Options struct {
	BaseURL   string        // ex: "https://hub.example.com/api"
	Timeout   time.Duration // per request
	UserAgent string

	// MetadataRPS and MetadataBurst bound link preview lookups, which fire
	// while a URL is being typed.
	MetadataRPS   float64
	MetadataBurst int
}

// Client talks to the remote knowledge-hub API. It attaches the bearer token
// of the session to every call, ends the session on 401/403 and never retries.
type Client struct {
	http        *resty.Client
	session     *session.Session
	logger      logger.Logger
	metaLimiter *rate.Limiter
}

// New builds a client bound to sess.
func New(opts Options, sess *session.Session, log logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MetadataRPS <= 0 {
		opts.MetadataRPS = 2
	}
	if opts.MetadataBurst < 1 {
		opts.MetadataBurst = 1
	}

	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	c := &Client{
		http:        rc,
		session:     sess,
		logger:      log,
		metaLimiter: rate.NewLimiter(rate.Limit(opts.MetadataRPS), opts.MetadataBurst),
	}

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("X-Request-ID", uuid.NewString())
		if tok, ok := c.session.Token(); ok {
			r.SetHeader("Authorization", "Bearer "+tok)
		}
		return nil
	})

	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

// call describes one request.
type call struct {
	method string
	path   string
	body   any
	result any
	query  map[string]string
	// public calls do not end the session on 401/403 (login, register).
	public      bool
	contentType string
}

func (c *Client) do(ctx context.Context, cl call) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&remoteError{})
	if cl.body != nil {
		req.SetBody(cl.body)
		if cl.contentType != "" {
			req.SetHeader("Content-Type", cl.contentType)
		} else {
			req.SetHeader("Content-Type", "application/json")
		}
	}
	if cl.result != nil {
		req.SetResult(cl.result)
	}
	if len(cl.query) > 0 {
		req.SetQueryParams(cl.query)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		c.logger.Warn("api request failed",
			logger.String("method", cl.method),
			logger.String("path", cl.path),
			logger.Duration("duration", time.Since(start)),
			logger.Error(err))
		return huberrors.Network(err)
	}

	c.logger.Debug("api request",
		logger.String("method", cl.method),
		logger.String("path", cl.path),
		logger.Int("status", resp.StatusCode()),
		logger.Duration("duration", time.Since(start)))

	return c.check(resp, cl.public)
}

func (c *Client) check(resp *resty.Response, public bool) error {
	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}

	msg := ""
	if e, ok := resp.Error().(*remoteError); ok {
		msg = e.text()
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		if public {
			if msg == "" {
				msg = "invalid credentials"
			}
			return huberrors.Validation(msg)
		}
		if c.session.End(session.ReasonExpired) {
			c.logger.Warn("session expired, credentials cleared",
				logger.Int("status", status))
		}
		return huberrors.SessionExpired(status)
	}

	return huberrors.Server(status, msg)
}

func boolParam(b bool) string {
	return strconv.FormatBool(b)
}

package lifecycle

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/id"
)

// Prompt describes a destructive action waiting for the user's consent.
type Prompt struct {
	Action  domain.Action `json:"action"`
	IDs     []string      `json:"ids,omitempty"`
	Message string        `json:"message"`
}

func (p Prompt) key() string {
	ids := slices.Clone(p.IDs)
	slices.Sort(ids)
	return string(p.Action) + ":" + strings.Join(ids, ",")
}

// Confirmer is the blocking confirmation step in front of destructive
// actions. It returns nil to proceed; any error stops the action before the
// remote call.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) error
}

// ConfirmFunc adapts an interactive yes/no prompt.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

// Confirm implements Confirmer. A "no" becomes ErrDeclined.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) error {
	ok, err := f(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return huberrors.ErrDeclined
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Token gate (two-step confirmation over HTTP)
// ─────────────────────────────────────────────────────────────────

// DefaultConfirmTTL bounds how long an issued confirmation token is valid.
const DefaultConfirmTTL = 2 * time.Minute

// ConfirmationDetails is attached to a CONFIRMATION_REQUIRED error.
type ConfirmationDetails struct {
	Token     string        `json:"confirmToken"`
	Action    domain.Action `json:"action"`
	IDs       []string      `json:"ids,omitempty"`
	Message   string        `json:"message"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

type pendingConfirm struct {
	key     string
	expires time.Time
}

// TokenGate confirms an action when the request context carries a token
// previously issued for the same action and ids. Tokens are single use.
type TokenGate struct {
	mu      sync.Mutex
	pending map[string]pendingConfirm
	ttl     time.Duration
	now     func() time.Time
}

// NewTokenGate creates a gate. ttl <= 0 uses DefaultConfirmTTL.
func NewTokenGate(ttl time.Duration) *TokenGate {
	if ttl <= 0 {
		ttl = DefaultConfirmTTL
	}
	return &TokenGate{
		pending: make(map[string]pendingConfirm),
		ttl:     ttl,
		now:     time.Now,
	}
}

type confirmTokenKey struct{}

// WithConfirmToken attaches a confirmation token to ctx.
func WithConfirmToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, confirmTokenKey{}, token)
}

func confirmTokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(confirmTokenKey{}).(string)
	return tok
}

// Confirm implements Confirmer.
func (g *TokenGate) Confirm(ctx context.Context, p Prompt) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for tok, pc := range g.pending {
		if !now.Before(pc.expires) {
			delete(g.pending, tok)
		}
	}

	key := p.key()
	if tok := confirmTokenFrom(ctx); tok != "" {
		pc, ok := g.pending[tok]
		delete(g.pending, tok)
		if ok && pc.key == key {
			return nil
		}
	}

	tok, err := id.Generate("cf")
	if err != nil {
		return huberrors.Internal("issue confirmation token", err)
	}
	expires := now.Add(g.ttl)
	g.pending[tok] = pendingConfirm{key: key, expires: expires}

	return huberrors.ErrConfirmationRequired.WithDetails(ConfirmationDetails{
		Token:     tok,
		Action:    p.Action,
		IDs:       p.IDs,
		Message:   p.Message,
		ExpiresAt: expires,
	})
}

// Pending returns the number of unexpired tokens.
func (g *TokenGate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.pending)
}

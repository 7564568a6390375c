package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/khub/internal/api"
	"github.com/MrSnakeDoc/khub/internal/domain"
	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/lifecycle"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/session"
	redisstore "github.com/MrSnakeDoc/khub/internal/store/redis"
	"github.com/MrSnakeDoc/khub/internal/validation"
)

// Remote is the part of the API client handlers call directly. Resource
// mutations go through the Controller instead.
type Remote interface {
	Login(ctx context.Context, creds api.Credentials) (session.User, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	LifetimeStats(ctx context.Context) (domain.LifetimeStats, error)
	Metadata(ctx context.Context, rawURL string) (domain.Metadata, error)
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedCIDRS []string         // IPs allowed to access the admin endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Controller *lifecycle.Controller
	API        Remote
	Session    *session.Session
	Gate       *lifecycle.TokenGate // pending confirmations, for status only
	Validator  *validation.Validator
	Views      *index.ViewIndex

	RedisClient *redis.Client     // nil when Redis is disabled
	Store       *redisstore.Store // nil when Redis is disabled

	ReloadTrigger chan struct{} // Channel to trigger a reload of the current scope
	PresetTrigger chan struct{} // Channel to trigger a presets reload (nil if no views file)

	// AfterLogin runs once the session has begun. Its error is logged, the
	// login still succeeds.
	AfterLogin func(ctx context.Context, user session.User) error

	MaxSavedViews int // cap on user-created saved views, 0 means unlimited
	MaxSelection  int // cap on ids one selection request may select, 0 means unlimited
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}

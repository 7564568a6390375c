package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/khub/internal/api"
	"github.com/MrSnakeDoc/khub/internal/config"
	"github.com/MrSnakeDoc/khub/internal/domain"
	"github.com/MrSnakeDoc/khub/internal/httpserver"
	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/lifecycle"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/redis"
	"github.com/MrSnakeDoc/khub/internal/scheduler"
	"github.com/MrSnakeDoc/khub/internal/session"
	redisstore "github.com/MrSnakeDoc/khub/internal/store/redis"
	"github.com/MrSnakeDoc/khub/internal/utils"
	"github.com/MrSnakeDoc/khub/internal/validation"
	"github.com/MrSnakeDoc/khub/internal/version"
)

type App struct {
	cfg            *config.Config
	logger         logger.Logger
	server         *httpserver.Server
	redisClient    *goredis.Client
	client         *api.Client
	syncer         *scheduler.RedisSyncer
	viewReloader   *scheduler.ViewReloader
	presetReloader *scheduler.PresetReloader
	gc             *scheduler.GarbageCollector
	afterLogin     func(ctx context.Context, user session.User) error
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	loggerClient.Debug("configuration loaded", logger.String("config", fmt.Sprintf("%+v", cfg.Redacted())))

	// Redis is optional; when configured it must come up (fail fast).
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.RedisEnabled() {
		loggerClient.Info("connecting to redis", logger.String("addr", cfg.RedisAddr))
		var err error
		redisClient, err = redis.Connect(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient.Named("redis"))
		if err != nil {
			loggerClient.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		store = redisstore.NewStore(redisClient)
	} else {
		loggerClient.Info("redis not configured, running memory-only")
	}

	sess := session.New()
	client := api.New(api.Options{
		BaseURL:       cfg.APIBaseURL,
		Timeout:       cfg.APITimeout,
		UserAgent:     cfg.UserAgent,
		MetadataRPS:   cfg.MetadataRPS,
		MetadataBurst: cfg.MetadataBurst,
	}, sess, loggerClient.Named("api"))

	list := index.NewResourceList()
	views := index.NewViewIndex()
	gate := lifecycle.NewTokenGate(cfg.ConfirmTTL)
	controller := lifecycle.New(client, list, gate, loggerClient.Named("lifecycle"), lifecycle.Options{
		NoticeTTL: cfg.NoticeTTL,
	})
	sess.OnEnd(controller.Teardown)

	var syncer *scheduler.RedisSyncer
	if store != nil {
		syncer = scheduler.NewRedisSyncer(store, views, list, loggerClient)
		if err := syncer.SyncViews(context.Background()); err != nil {
			loggerClient.Warn("failed to sync saved views from redis on startup", logger.Error(err))
		}
		// Snapshots hold user data; a deliberate logout removes them.
		sess.OnEnd(func(reason session.EndReason) {
			userID := sess.LastUser().ID
			if reason != session.ReasonLogout || userID == "" {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.DropSnapshots(ctx, userID); err != nil {
				loggerClient.Warn("failed to drop view snapshots", logger.Error(err))
			}
		})
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)
	viewReloader := scheduler.NewViewReloader(
		controller,
		sess,
		store,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	// Initialize preset reloader (if a views file is configured)
	var presetReloader *scheduler.PresetReloader
	var presetTrigger chan struct{}
	if cfg.ViewsFile != "" {
		loggerClient.Info("views file configured, initializing preset reloader",
			logger.String("file", cfg.ViewsFile))
		presetTrigger = make(chan struct{}, 1)
		presetReloader = scheduler.NewPresetReloader(
			cfg.ViewsFile,
			store,
			views,
			loggerClient,
			cfg.PresetReload,
			presetTrigger,
		)
	} else {
		loggerClient.Info("views file not configured, presets disabled")
	}

	gc := scheduler.NewGarbageCollector(
		store,
		views,
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	// Warm start must precede the first load: it opens a load generation
	// of its own.
	afterLogin := func(ctx context.Context, user session.User) error {
		if syncer != nil {
			syncer.WarmStart(ctx, user.ID, domain.ScopeActive)
		}
		return viewReloader.Load(ctx, lifecycle.LoadQuery{Scope: domain.ScopeActive})
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Controller:    controller,
		API:           client,
		Session:       sess,
		Gate:          gate,
		Validator:     validation.New(),
		Views:         views,
		RedisClient:   redisClient,
		Store:         store,
		ReloadTrigger: reloadTrigger,
		PresetTrigger: presetTrigger,
		AfterLogin:    afterLogin,
		MaxSavedViews: cfg.MaxSavedViews,
		MaxSelection:  cfg.MaxSelectionExport,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:            cfg,
		logger:         loggerClient,
		server:         server,
		redisClient:    redisClient,
		client:         client,
		syncer:         syncer,
		viewReloader:   viewReloader,
		presetReloader: presetReloader,
		gc:             gc,
		afterLogin:     afterLogin,
	}
}

func (a *App) Run() error {
	a.logger.Info("starting khub",
		logger.String("version", version.Version),
		logger.String("commit", version.Commit),
		logger.String("built", version.BuildDate),
		logger.String("go", version.GoVersion),
		logger.String("addr", a.cfg.ListenPort))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start preset reloader (if enabled)
	if a.presetReloader != nil {
		if err := a.presetReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start preset reloader: %w", err)
		}
		a.logger.Info("preset reloader started",
			logger.Duration("interval", a.cfg.PresetReload))
	}

	a.gc.Start(ctx)
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	if a.cfg.AutoLogin() {
		a.autoLogin(ctx)
	}

	a.viewReloader.Start(ctx)
	a.logger.Info("view reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.viewReloader.Stop()
	if a.presetReloader != nil {
		a.presetReloader.Stop()
	}
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, "redis", a.logger)
	}

	a.logger.Info("khub stopped cleanly")
	return nil
}

// autoLogin signs in with the configured credentials. Failure leaves the
// service running signed out.
func (a *App) autoLogin(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*a.cfg.APITimeout)
	defer cancel()

	user, err := a.client.Login(ctx, api.Credentials{Email: a.cfg.Email, Password: a.cfg.Password})
	if err != nil {
		a.logger.Warn("auto-login failed, waiting for an explicit login", logger.Error(err))
		return
	}
	if err := a.afterLogin(ctx, user); err != nil {
		a.logger.Warn("initial load failed", logger.Error(err))
	}
}

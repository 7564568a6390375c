package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote REST API
	APIBaseURL    string        // ex: "https://khub.example.com/api"
	APITimeout    time.Duration // per request
	UserAgent     string
	MetadataRPS   float64 // outbound link preview lookups per second
	MetadataBurst int

	// Optional auto-login at startup (both empty = wait for POST /api/auth/login)
	Email    string
	Password string

	// View behaviour
	NoticeTTL      time.Duration // banner lifetime (default: 3s)
	ConfirmTTL     time.Duration // confirmation token lifetime (default: 2m)
	ReloadInterval time.Duration // periodic reload of the current scope (0 = manual only)

	// Saved view presets
	ViewsFile          string        // optional YAML presets file (empty = presets disabled)
	PresetReload       time.Duration // interval to reload the presets file (default: 1h)
	GCInterval         time.Duration // interval to run garbage collection (default: 24h)
	GCThreshold        time.Duration // disabled presets older than this are deleted (default: 30d)
	MaxSavedViews      int           // cap on user-created views (default: 50)
	MaxSelectionExport int           // cap on ids accepted by POST /selection/all (default: 500)

	// Redis (empty address = in-memory only)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// HTTP surface
	AllowedCIDRS []string // optional, restrict admin routes to these networks (e.g. "10.0.0.0/8, 127.0.0.1")
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	CORSOrigins  []string // allowed browser origins (empty = same-origin only)
	RateLimitRPS float64  // per-client request rate (0 = unlimited)
	RateBurst    int
}

// Load reads the configuration from the environment. A .env file in the
// working directory, or the file named by KHUB_ENV_FILE, is loaded first
// without overriding variables that are already set.
func Load() *Config {
	loadDotEnv(getenv("KHUB_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("KHUB_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("KHUB_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("KHUB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("KHUB_PRETTY_LOG", true),

		// Remote API
		APIBaseURL:    requireURL("KHUB_API_BASE_URL"),
		APITimeout:    mustDuration("KHUB_API_TIMEOUT", 10*time.Second),
		UserAgent:     getenv("KHUB_USER_AGENT", "khub"),
		MetadataRPS:   getenvFloat("KHUB_METADATA_RPS", 2),
		MetadataBurst: getenvInt("KHUB_METADATA_BURST", 4),
		Email:         getenv("KHUB_EMAIL", ""),
		Password:      getenv("KHUB_PASSWORD", ""),

		// View
		NoticeTTL:      mustDuration("KHUB_NOTICE_TTL", 3*time.Second),
		ConfirmTTL:     mustDuration("KHUB_CONFIRM_TTL", 2*time.Minute),
		ReloadInterval: mustDuration("KHUB_RELOAD_INTERVAL", 0),

		// Presets
		ViewsFile:          getenv("KHUB_VIEWS_FILE", ""),
		PresetReload:       mustDuration("KHUB_PRESET_RELOAD_INTERVAL", time.Hour),
		GCInterval:         mustDuration("KHUB_GC_INTERVAL", 24*time.Hour),
		GCThreshold:        mustDuration("KHUB_GC_THRESHOLD", 30*24*time.Hour),
		MaxSavedViews:      getenvInt("KHUB_MAX_SAVED_VIEWS", 50),
		MaxSelectionExport: getenvInt("KHUB_MAX_SELECTION", 500),

		// Redis settings
		RedisAddr:           getenv("KHUB_REDIS_ADDR", ""),
		RedisUser:           getenv("KHUB_REDIS_USERNAME", ""),
		RedisPassword:       getenv("KHUB_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("KHUB_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("KHUB_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("KHUB_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("KHUB_CORS_ORIGINS", "")),
		RateLimitRPS: getenvFloat("KHUB_RATE_LIMIT_RPS", 20),
		RateBurst:    getenvInt("KHUB_RATE_LIMIT_BURST", 40),
	}

	if (cfg.Email == "") != (cfg.Password == "") {
		panic("❌ FATAL: KHUB_EMAIL and KHUB_PASSWORD must be set together")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	if c.RedisUser != "" {
		c.RedisUser = "***REDACTED***"
	}
	if c.Password != "" {
		c.Password = "***REDACTED***"
	}
	return c
}

// AutoLogin reports whether credentials were configured.
func (c *Config) AutoLogin() bool {
	return c.Email != "" && c.Password != ""
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func loadDotEnv(path string) {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	panic(fmt.Sprintf("❌ FATAL: Cannot load env file %s: %v", path, err))
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireURL(key string) string {
	v := strings.TrimRight(requireEnv(key), "/")
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		panic(fmt.Sprintf("❌ FATAL: Invalid URL value for %s: %s", key, v))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

package lifecycle

import (
	"sync"
	"time"
)

// DefaultNoticeTTL is how long a banner stays visible.
const DefaultNoticeTTL = 3 * time.Second

// Notice levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// Notice is a transient, auto-dismissing banner message.
type Notice struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	PostedAt  time.Time `json:"postedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notifier keeps the latest notice until it expires.
type Notifier struct {
	mu      sync.Mutex
	current *Notice
	ttl     time.Duration
	now     func() time.Time
}

// NewNotifier creates a notifier. ttl <= 0 uses DefaultNoticeTTL.
func NewNotifier(ttl time.Duration, now func() time.Time) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{ttl: ttl, now: now}
}

// Post replaces the current notice.
func (n *Notifier) Post(level, msg string) Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	at := n.now()
	notice := Notice{Level: level, Message: msg, PostedAt: at, ExpiresAt: at.Add(n.ttl)}
	n.current = &notice
	return notice
}

// Current returns the live notice, if any. Expired notices are dropped.
func (n *Notifier) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return Notice{}, false
	}
	if !n.now().Before(n.current.ExpiresAt) {
		n.current = nil
		return Notice{}, false
	}
	return *n.current, true
}

// Dismiss clears the current notice.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = nil
}

package session

import (
	"slices"
	"sync"
	"time"
)

// EndReason tells teardown hooks why the session ended.
type EndReason string

const (
	ReasonLogout  EndReason = "logout"
	ReasonExpired EndReason = "expired"
)

// User is the identity returned by login.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Session owns the bearer token for one logged-in user. Begin on login, End on
// logout or when the remote API rejects the token. Hooks registered with OnEnd
// run once per ended session.
type Session struct {
	mu        sync.RWMutex
	token     string
	user      User
	lastUser  User
	startedAt time.Time
	endedAt   time.Time
	lastEnd   EndReason
	hooks     []func(EndReason)
}

// New returns an inactive session.
func New() *Session {
	return &Session{}
}

// Begin stores the token and marks the session active.
func (s *Session) Begin(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = user
	s.startedAt = time.Now()
	s.endedAt = time.Time{}
	s.lastEnd = ""
}

// Refresh swaps the token of an active session. On an ended session a
// fresh token resumes it for the last user, since the remote API grants
// refreshes from its cookie. It reports whether the session was resumed.
func (s *Session) Refresh(token string) (resumed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return false
	}
	if s.token != "" {
		s.token = token
		return false
	}
	s.token = token
	s.user = s.lastUser
	s.startedAt = time.Now()
	s.endedAt = time.Time{}
	s.lastEnd = ""
	return true
}

// End clears the credentials and runs the teardown hooks. Ending an inactive
// session does nothing and reports false.
func (s *Session) End(reason EndReason) bool {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return false
	}
	s.token = ""
	s.lastUser = s.user
	s.user = User{}
	s.endedAt = time.Now()
	s.lastEnd = reason
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	for _, h := range hooks {
		h(reason)
	}
	return true
}

// LastUser returns the user of the most recently ended session. Hooks use
// it since User is already cleared when they run.
func (s *Session) LastUser() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUser
}

// OnEnd registers a teardown hook.
func (s *Session) OnEnd(fn func(EndReason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Token returns the bearer token and whether the session is active.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Active reports whether a user is logged in.
func (s *Session) Active() bool {
	_, ok := s.Token()
	return ok
}

// User returns the logged-in user.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Status is a read-only view for status endpoints. The token is never exposed.
type Status struct {
	Active    bool      `json:"active"`
	User      User      `json:"user"`
	StartedAt time.Time `json:"startedAt,omitzero"`
	EndedAt   time.Time `json:"endedAt,omitzero"`
	LastEnd   EndReason `json:"lastEnd,omitempty"`
}

// Status snapshots the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Active:    s.token != "",
		User:      s.user,
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
		LastEnd:   s.lastEnd,
	}
}

package client

import (
	"strings"
	"sync"
)

const bearerPrefix = "Bearer "

// Session holds the bearer token used for every request
type Session struct {
	mu       sync.RWMutex
	token    string
	onChange func(token string)
}

// NewSession creates a session, optionally seeded with a token
func NewSession(token string) *Session {
	return &Session{token: normalizeToken(token)}
}

// OnChange registers the hook called with the new token after Set or Clear.
// An empty token means the session was cleared.
func (s *Session) OnChange(fn func(token string)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Token returns the raw token without the Bearer prefix
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authorization returns the Authorization header value, or "" when logged out
func (s *Session) Authorization() string {
	token := s.Token()
	if token == "" {
		return ""
	}
	return bearerPrefix + token
}

// Set replaces the token
func (s *Session) Set(token string) {
	s.update(normalizeToken(token))
}

// Clear forgets the token
func (s *Session) Clear() {
	s.update("")
}

func (s *Session) update(token string) {
	s.mu.Lock()
	s.token = token
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(token)
	}
}

func normalizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), bearerPrefix))
}

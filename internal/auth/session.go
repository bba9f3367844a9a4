package auth

import (
	"sync"
	"time"
)

// Session is the authentication context of one user. The API client reads the
// token from it and signs it out when the backend answers 401.
type Session struct {
	mu       sync.RWMutex
	token    string
	claims   *Claims
	onChange func(token string)
}

func NewSession() *Session {
	return &Session{}
}

// RestoreSession rebuilds a session from a persisted token. Tokens that can no
// longer be decoded or are expired are dropped.
func RestoreSession(token string, now time.Time) *Session {
	s := NewSession()
	claims, err := DecodeClaims(token)
	if err != nil || claims.Expired(now) {
		return s
	}
	s.token = token
	s.claims = claims
	return s
}

func (s *Session) OnChange(callback func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = callback
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Claims() (Claims, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return Claims{}, false
	}
	return *s.claims, true
}

func (s *Session) IsSignedIn() bool {
	return s.Token() != ""
}

func (s *Session) SignIn(token string) (Claims, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return Claims{}, err
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	callback := s.onChange
	s.mu.Unlock()

	if callback != nil {
		callback(token)
	}
	return *claims, nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	wasSignedIn := s.token != ""
	s.token = ""
	s.claims = nil
	callback := s.onChange
	s.mu.Unlock()

	if wasSignedIn && callback != nil {
		callback("")
	}
}

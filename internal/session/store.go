// Package session holds the authenticated identity for the console and the
// CLI, backed by a persisted bearer token.
package session

import (
	"context"
	"sync"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
)

// ExpiredMessage is shown after a stored token stops working.
const ExpiredMessage = "Session expired. Please login again."

// Authenticator is the part of the backend client the store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Profile(ctx context.Context) (records.User, error)
	Logout(ctx context.Context) error
}

// Store is the session state. Methods are safe for concurrent use; the
// console runs backend calls from command goroutines.
type Store struct {
	auth   Authenticator
	tokens TokenStore
	logf   func(format string, args ...any)

	mu      sync.Mutex
	user    *records.User
	loading bool
	err     string
}

// New creates a Store. Call Check to restore a persisted session.
func New(auth Authenticator, tokens TokenStore) *Store {
	return &Store{auth: auth, tokens: tokens, logf: func(string, ...any) {}}
}

// SetLogf routes best-effort failures (logout notification, token cleanup).
func (s *Store) SetLogf(logf func(format string, args ...any)) {
	if logf != nil {
		s.logf = logf
	}
}

// User returns a copy of the current identity, or nil when signed out.
func (s *Store) User() *records.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading reports whether a login or check is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last session error message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError dismisses the session error.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool { return s.User() != nil }

// IsAdmin reports whether the signed-in user is an admin.
func (s *Store) IsAdmin() bool {
	u := s.User()
	return u != nil && u.Role == records.RoleAdmin
}

// IsLibrarian reports whether the signed-in user is a librarian or admin.
func (s *Store) IsLibrarian() bool {
	u := s.User()
	return u != nil && (u.Role == records.RoleLibrarian || u.Role == records.RoleAdmin)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.user = nil
	s.mu.Unlock()
}

func (s *Store) finish(u *records.User, msg string) {
	s.mu.Lock()
	s.loading = false
	s.user = u
	s.err = msg
	s.mu.Unlock()
}

func (s *Store) clearToken() {
	if err := s.tokens.Clear(); err != nil {
		s.logf("session: %v", err)
	}
}

// Login authenticates, persists the token and resolves the profile. On any
// failure the prior session is gone and Err holds a readable message.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.begin()
	s.clearToken()

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.finish(nil, err.Error())
		return err
	}
	if err := s.tokens.SetToken(res.Token); err != nil {
		s.finish(nil, err.Error())
		return err
	}

	user := res.User
	if user == nil {
		u, err := s.auth.Profile(ctx)
		if err != nil {
			s.clearToken()
			s.finish(nil, err.Error())
			return err
		}
		user = &u
	}
	s.finish(user, "")
	return nil
}

// Logout clears local state. The backend is notified best-effort; its
// failure is logged and never prevents the local sign-out.
func (s *Store) Logout(ctx context.Context) {
	s.clearToken()
	s.finish(nil, "")
	if err := s.auth.Logout(ctx); err != nil {
		s.logf("logout: %v", err)
	}
}

// Check restores a persisted session. A token that no longer resolves to a
// profile is cleared and Err is set to ExpiredMessage; Check itself never
// fails so the signed-out view can always render.
func (s *Store) Check(ctx context.Context) {
	if s.tokens.Token() == "" {
		s.finish(nil, "")
		return
	}
	s.begin()
	u, err := s.auth.Profile(ctx)
	if err != nil {
		s.logf("session check: %v", err)
		s.clearToken()
		s.finish(nil, ExpiredMessage)
		return
	}
	s.finish(&u, "")
}

// Expire drops the session after the backend rejected the token. It
// reports true only when a signed-in session was actually ended, so a
// caller redirects to the login view once per session.
func (s *Store) Expire() bool {
	s.clearToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return false
	}
	s.user = nil
	s.err = ExpiredMessage
	return true
}

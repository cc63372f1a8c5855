// Package service implements the storefront client's stores: session state
// and the server-mirrored cart. Stores are explicit, dependency-injected
// singletons constructed at application start; consumers hold read access
// plus a fixed set of mutating operations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/adapter/outbound/api"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/domain/auth"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/port/outbound"
)

// NavTarget is the navigation intent signaled by session operations.
// The client core does no routing itself; callers decide what to do with it.
type NavTarget string

const (
	// NavAdmin is the admin console entry point.
	NavAdmin NavTarget = "/admin"
	// NavCatalog is the product listing.
	NavCatalog NavTarget = "/products"
	// NavHome is the public landing page.
	NavHome NavTarget = "/"
	// NavLogin is the login entry point.
	NavLogin NavTarget = "/login"
)

// AuthAPI is the slice of the backend client the session store needs.
type AuthAPI interface {
	Me(ctx context.Context) (*auth.User, error)
	Login(ctx context.Context, creds auth.Credentials) (*api.AuthResult, error)
	Register(ctx context.Context, reg auth.Registration) (*api.AuthResult, error)
	Logout(ctx context.Context) error
}

// SessionService holds the authenticated-user state for the process.
// IsAuthenticated and IsAdmin are derived from the current user on every
// call, never stored, so they cannot diverge.
type SessionService struct {
	api      AuthAPI
	tokens   outbound.TokenStore
	notifier outbound.Notifier
	history  outbound.HistoryStore // optional, may be nil
	logger   *slog.Logger
	validate *validator.Validate

	mu    sync.RWMutex
	user  *auth.User
	ready bool

	onAuthChange func(authenticated bool)
}

// NewSessionService creates a session store. history may be nil.
func NewSessionService(authAPI AuthAPI, tokens outbound.TokenStore, notifier outbound.Notifier, history outbound.HistoryStore, logger *slog.Logger) *SessionService {
	return &SessionService{
		api:      authAPI,
		tokens:   tokens,
		notifier: notifier,
		history:  history,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// SetAuthChangeListener registers a callback fired whenever the session
// transitions between authenticated and unauthenticated. Used to wire the
// cart store's lifecycle to the session without coupling the packages.
func (s *SessionService) SetAuthChangeListener(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAuthChange = fn
}

// Bootstrap hydrates the session from the persisted token at process start.
// An invalid or expired token is "no session", not an error: it clears the
// token and leaves the session empty. Always marks the service ready.
func (s *SessionService) Bootstrap(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.ready = true
		s.mu.Unlock()
	}()

	token, err := s.tokens.Load()
	if err != nil {
		s.logger.Warn("failed to load persisted token", "error", err)
		return
	}
	if token == "" {
		return
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.logger.Info("session bootstrap failed, clearing token", "error", err)
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.logger.Warn("failed to clear persisted token", "error", clearErr)
		}
		return
	}

	s.setUser(user)
	s.logger.Debug("session hydrated", "user", user.Email, "role", user.Role)
}

// Login authenticates with the backend, persists the returned token, and
// populates the session. The returned NavTarget is NavAdmin for the
// administrative role and NavCatalog otherwise. On failure the error is
// surfaced as a notification and returned so callers can react without
// duplicating their own handling.
func (s *SessionService) Login(ctx context.Context, creds auth.Credentials) (NavTarget, error) {
	if err := s.validate.Struct(creds); err != nil {
		err = fmt.Errorf("invalid credentials: %w", err)
		s.notifier.Error(api.Message(err))
		return NavLogin, err
	}

	start := time.Now()
	res, err := s.api.Login(ctx, creds)
	s.record(ctx, "session.login", err, time.Since(start))
	if err != nil {
		s.notifier.Error(api.Message(err))
		return NavLogin, err
	}

	if err := s.tokens.Save(res.AccessToken); err != nil {
		s.logger.Warn("failed to persist access token", "error", err)
	}

	user := res.User
	s.setUser(&user)
	s.notifier.Success("signed in as " + user.Email)

	if user.IsAdmin() {
		return NavAdmin, nil
	}
	return NavCatalog, nil
}

// Register creates an account and authenticates in one step. On success the
// navigation intent is always the product listing.
func (s *SessionService) Register(ctx context.Context, reg auth.Registration) (NavTarget, error) {
	if err := s.validate.Struct(reg); err != nil {
		err = fmt.Errorf("invalid registration: %w", err)
		s.notifier.Error(api.Message(err))
		return NavLogin, err
	}

	start := time.Now()
	res, err := s.api.Register(ctx, reg)
	s.record(ctx, "session.register", err, time.Since(start))
	if err != nil {
		s.notifier.Error(api.Message(err))
		return NavLogin, err
	}

	if err := s.tokens.Save(res.AccessToken); err != nil {
		s.logger.Warn("failed to persist access token", "error", err)
	}

	user := res.User
	s.setUser(&user)
	s.notifier.Success("account created for " + user.Email)
	return NavCatalog, nil
}

// Logout clears the session. The remote logout call is best-effort: a
// backend failure is logged and swallowed, local state is cleared
// unconditionally, and Logout never returns an error.
func (s *SessionService) Logout(ctx context.Context) NavTarget {
	start := time.Now()
	err := s.api.Logout(ctx)
	if err != nil {
		s.logger.Warn("remote logout failed, clearing local session anyway", "error", err)
	}
	s.record(ctx, "session.logout", nil, time.Since(start))

	if clearErr := s.tokens.Clear(); clearErr != nil {
		s.logger.Warn("failed to clear persisted token", "error", clearErr)
	}
	s.setUser(nil)
	return NavHome
}

// Invalidate drops the local session without a remote call. The transport
// calls this (via the session-expired hook) after a failed token refresh
// has already cleared the persisted token.
func (s *SessionService) Invalidate() {
	s.setUser(nil)
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (s *SessionService) CurrentUser() *auth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is present. Derived, never stored.
func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin reports whether the current user holds the administrative role.
// Derived, never stored.
func (s *SessionService) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// Ready reports whether initial bootstrap has completed (success or not).
func (s *SessionService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// setUser replaces the current user and fires the auth-change listener when
// the authenticated/unauthenticated state flips.
func (s *SessionService) setUser(user *auth.User) {
	s.mu.Lock()
	wasAuthed := s.user != nil
	s.user = user
	nowAuthed := user != nil
	listener := s.onAuthChange
	s.mu.Unlock()

	if listener != nil && wasAuthed != nowAuthed {
		listener(nowAuthed)
	}
}

// record appends an operation outcome to the local history, when enabled.
func (s *SessionService) record(ctx context.Context, op string, err error, d time.Duration) {
	if s.history == nil {
		return
	}
	entry := outbound.HistoryEntry{Op: op, Outcome: outbound.OutcomeOK, Duration: d}
	if err != nil {
		entry.Outcome = outbound.OutcomeError
		entry.Detail = api.Message(err)
	}
	if recordErr := s.history.Record(ctx, entry); recordErr != nil {
		s.logger.Warn("failed to record history entry", "op", op, "error", recordErr)
	}
}

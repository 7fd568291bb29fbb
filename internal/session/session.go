// Package session ties the pure auth transitions in the store to the
// authenticator and the user cache. State changes happen in the store first;
// cache writes follow only after the transition succeeded.
package session

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/dori/taskboard/internal/auth"
	"github.com/dori/taskboard/internal/cache"
	"github.com/dori/taskboard/internal/model"
	"github.com/dori/taskboard/internal/store"
)

// Session drives login, signup and logout for one store
type Session struct {
	store *store.Store
	auth  *auth.Authenticator
	cache cache.UserCache
	log   log.FieldLogger
}

// New creates a session. A nil logger discards log output.
func New(s *store.Store, a *auth.Authenticator, c cache.UserCache, logger log.FieldLogger) *Session {
	if logger == nil {
		l := log.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Session{store: s, auth: a, cache: c, log: logger}
}

// Store returns the underlying store
func (s *Session) Store() *store.Store {
	return s.store
}

// Restore reads the cached user once at startup. A broken cache entry is
// logged and treated as signed out.
func (s *Session) Restore(ctx context.Context) *model.User {
	u, err := s.cache.Load(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to read cached user")
		return nil
	}
	if u != nil {
		s.store.AuthSucceeded(*u)
		s.log.WithField("user", u.ID).Debug("restored cached user")
	}
	return u
}

// BeginAuth marks an auth call in flight. The UI disables submission while
// Pending is set.
func (s *Session) BeginAuth() {
	s.store.BeginAuth()
}

// Authenticate runs the credential check without touching state. It blocks
// for the simulated latency; the TUI calls it from a tea.Cmd.
func (s *Session) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	return s.auth.Login(ctx, email, password)
}

// Register runs signup without touching state
func (s *Session) Register(ctx context.Context, email, password, name string) (model.User, error) {
	return s.auth.Signup(ctx, email, password, name)
}

// CompleteLogin applies the result of Authenticate or Register and, on success,
// persists the user. A cache write failure is logged; the user stays signed in
// for this run.
func (s *Session) CompleteLogin(ctx context.Context, u model.User, err error) error {
	if err != nil {
		s.store.AuthFailed(err)
		s.log.WithError(err).Info("authentication failed")
		return err
	}

	s.store.AuthSucceeded(u)
	if cerr := s.cache.Save(ctx, u); cerr != nil {
		s.log.WithError(cerr).WithField("user", u.ID).Error("failed to cache user")
	}
	s.log.WithField("user", u.ID).Info("signed in")
	return nil
}

// Login runs a whole login synchronously
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.BeginAuth()
	u, err := s.Authenticate(ctx, email, password)
	return s.CompleteLogin(ctx, u, err)
}

// Signup runs a whole signup synchronously
func (s *Session) Signup(ctx context.Context, email, password, name string) error {
	s.BeginAuth()
	u, err := s.Register(ctx, email, password, name)
	return s.CompleteLogin(ctx, u, err)
}

// Logout clears the user and removes the cache entry
func (s *Session) Logout(ctx context.Context) error {
	prev := s.store.Auth().User
	s.store.Logout()
	if err := s.cache.Remove(ctx); err != nil {
		s.log.WithError(err).Error("failed to remove cached user")
		return err
	}
	if prev != nil {
		s.log.WithField("user", prev.ID).Info("signed out")
	}
	return nil
}

// ClearError clears the auth error
func (s *Session) ClearError() {
	s.store.ClearError()
}

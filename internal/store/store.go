// Package store is the application state container: an auth slice and a task
// slice, each changed only through the operations declared here. Every Store
// is independent; tests build their own.
package store

import (
	"time"

	"github.com/dori/taskboard/internal/model"
)

// Store holds the whole client state
type Store struct {
	auth  AuthState
	tasks *TaskSlice
}

type options struct {
	now  func() time.Time
	seed []model.Task
	user *model.User
}

// Option configures a Store
type Option func(*options)

// WithClock overrides the time source used for task timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTasks seeds the task list
func WithTasks(tasks []model.Task) Option {
	return func(o *options) { o.seed = tasks }
}

// WithUser seeds the signed-in user, typically from the local cache
func WithUser(u *model.User) Option {
	return func(o *options) { o.user = u }
}

// New creates a store
func New(opts ...Option) *Store {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{tasks: newTaskSlice(o.seed, o.now)}
	if o.user != nil {
		u := *o.user
		s.auth.User = &u
	}
	return s
}

// Auth returns the current auth state
func (s *Store) Auth() AuthState {
	a := s.auth
	if a.User != nil {
		u := *a.User
		a.User = &u
	}
	return a
}

// Tasks returns the task slice
func (s *Store) Tasks() *TaskSlice {
	return s.tasks
}

// BeginAuth marks a login or signup as in flight
func (s *Store) BeginAuth() {
	s.auth = s.auth.Begin()
}

// AuthSucceeded records the user returned by login or signup
func (s *Store) AuthSucceeded(u model.User) {
	s.auth = s.auth.Succeed(u)
}

// AuthFailed records a failed login or signup
func (s *Store) AuthFailed(err error) {
	s.auth = s.auth.Fail(err)
}

// Logout clears the user and error
func (s *Store) Logout() {
	s.auth = s.auth.LoggedOut()
}

// ClearError clears the auth error
func (s *Store) ClearError() {
	s.auth = s.auth.ErrorCleared()
}

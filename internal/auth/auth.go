// Package auth is a mock credential check. There is no server: login compares
// against one configured account and signup always succeeds, both after a
// simulated network delay.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dori/taskboard/internal/model"
)

// ErrInvalidCredentials is returned by Login when the pair doesn't match
var ErrInvalidCredentials = errors.New("Invalid credentials")

// DefaultLatency is the simulated round trip
const DefaultLatency = time.Second

// Account is the single accepted login
type Account struct {
	Email    string
	Password string
	User     model.User
}

// DefaultAccount returns the built-in demo account
func DefaultAccount() Account {
	return Account{
		Email:    "piyush@gmail.com",
		Password: "password",
		User: model.User{
			ID:    "1",
			Name:  "Piyush",
			Email: "piyush@gmail.com",
		},
	}
}

// Authenticator resolves credentials into a user
type Authenticator struct {
	account Account
	latency time.Duration
	after   func(time.Duration) <-chan time.Time
	newID   func() string
}

// Option configures an Authenticator
type Option func(*Authenticator)

// WithLatency sets the simulated delay. Zero or negative disables it.
func WithLatency(d time.Duration) Option {
	return func(a *Authenticator) { a.latency = d }
}

// WithTimer replaces time.After, letting tests resolve the delay on demand
func WithTimer(after func(time.Duration) <-chan time.Time) Option {
	return func(a *Authenticator) { a.after = after }
}

// WithIDGenerator replaces the signup id source
func WithIDGenerator(newID func() string) Option {
	return func(a *Authenticator) { a.newID = newID }
}

// New creates an Authenticator accepting account
func New(account Account, opts ...Option) *Authenticator {
	a := &Authenticator{
		account: account,
		latency: DefaultLatency,
		after:   time.After,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login waits out the simulated latency, then returns the account's user if
// email and password match
func (a *Authenticator) Login(ctx context.Context, email, password string) (model.User, error) {
	if err := a.wait(ctx); err != nil {
		return model.User{}, err
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(email)), []byte(a.account.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.account.Password)) == 1
	if !emailOK || !passOK {
		return model.User{}, ErrInvalidCredentials
	}
	return a.account.User, nil
}

// Signup waits out the simulated latency and returns a new user
func (a *Authenticator) Signup(ctx context.Context, email, password, name string) (model.User, error) {
	if err := a.wait(ctx); err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:    a.newID(),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}, nil
}

func (a *Authenticator) wait(ctx context.Context) error {
	if a.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-a.after(a.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

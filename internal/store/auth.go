package store

import "github.com/dori/taskboard/internal/model"

// AuthState is the authentication slice. Its transitions are pure: they
// return the next state and never touch the cache or the network.
type AuthState struct {
	User    *model.User
	Pending bool
	Error   string
}

// LoggedIn reports whether a user is present
func (s AuthState) LoggedIn() bool {
	return s.User != nil
}

// Begin marks an auth call in flight and clears any previous error
func (s AuthState) Begin() AuthState {
	s.Pending = true
	s.Error = ""
	return s
}

// Succeed records the resolved user
func (s AuthState) Succeed(u model.User) AuthState {
	s.User = &u
	s.Pending = false
	s.Error = ""
	return s
}

// Fail records a failed auth call. The current user is left as it was.
func (s AuthState) Fail(err error) AuthState {
	s.Pending = false
	s.Error = "Login failed"
	if err != nil && err.Error() != "" {
		s.Error = err.Error()
	}
	return s
}

// LoggedOut clears the user and any error
func (s AuthState) LoggedOut() AuthState {
	s.User = nil
	s.Error = ""
	return s
}

// ErrorCleared clears only the error
func (s AuthState) ErrorCleared() AuthState {
	s.Error = ""
	return s
}

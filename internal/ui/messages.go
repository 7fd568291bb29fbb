package ui

import (
	"github.com/dori/taskboard/internal/model"
)

// Screen is the top-level screen being shown
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenBoard
)

// String returns the display name for a screen
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "Login"
	case ScreenBoard:
		return "Board"
	default:
		return "Unknown"
	}
}

// authDoneMsg carries the result of a login or signup run in a tea.Cmd
type authDoneMsg struct {
	User model.User
	Err  error
}

// tickMsg re-renders so expired toasts disappear
type tickMsg struct{}

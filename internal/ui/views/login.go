package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskboard/internal/store"
	"github.com/dori/taskboard/internal/ui/theme"
)

// LoginMode selects between the login and signup forms
type LoginMode int

const (
	LoginModeLogin LoginMode = iota
	LoginModeSignup
)

// LoginRequest asks the root model to run a login
type LoginRequest struct {
	Email    string
	Password string
}

// SignupRequest asks the root model to run a signup
type SignupRequest struct {
	Name     string
	Email    string
	Password string
}

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

// LoginView is the sign-in screen shown while no user is logged in
type LoginView struct {
	width  int
	height int

	mode    LoginMode
	inputs  [3]textinput.Model
	focus   int
	spinner spinner.Model

	auth    store.AuthState
	formErr string
}

// NewLoginView creates a new login view
func NewLoginView() LoginView {
	var inputs [3]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 128
		inputs[i] = ti
	}
	inputs[fieldName].Placeholder = "Your name"
	inputs[fieldEmail].Placeholder = "you@example.com"
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	v := LoginView{
		inputs:  inputs,
		focus:   fieldEmail,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	v.inputs[fieldEmail].Focus()
	return v
}

// Init initializes the login view
func (v LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v LoginView) SetSize(width, height int) LoginView {
	v.width = width
	v.height = height
	return v
}

// SetAuth hands the view the current auth state for rendering
func (v LoginView) SetAuth(state store.AuthState) LoginView {
	v.auth = state
	return v
}

// Mode returns whether the login or signup form is shown
func (v LoginView) Mode() LoginMode {
	return v.mode
}

// Spin starts the pending spinner
func (v LoginView) Spin() tea.Cmd {
	return v.spinner.Tick
}

// Reset clears the form, keeping the email for the next login
func (v LoginView) Reset() LoginView {
	v.inputs[fieldName].SetValue("")
	v.inputs[fieldPassword].SetValue("")
	v.formErr = ""
	v.mode = LoginModeLogin
	return v.focusField(fieldEmail)
}

func (v LoginView) fields() []int {
	if v.mode == LoginModeSignup {
		return []int{fieldName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (v LoginView) focusField(field int) LoginView {
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	v.focus = field
	v.inputs[field].Focus()
	return v
}

func (v LoginView) step(delta int) LoginView {
	fields := v.fields()
	pos := 0
	for i, f := range fields {
		if f == v.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	return v.focusField(fields[pos])
}

// Update handles messages
func (v LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.auth.Pending {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		// Submission is disabled while a request is in flight
		if v.auth.Pending {
			return v, nil
		}

		switch msg.String() {
		case "tab", "down":
			return v.step(1), nil
		case "shift+tab", "up":
			return v.step(-1), nil
		case "ctrl+n":
			if v.mode == LoginModeLogin {
				v.mode = LoginModeSignup
				v.formErr = ""
				return v.focusField(fieldName), nil
			}
			v.mode = LoginModeLogin
			v.formErr = ""
			return v.focusField(fieldEmail), nil
		case "enter":
			fields := v.fields()
			if v.focus != fields[len(fields)-1] {
				return v.step(1), nil
			}
			return v.submit()
		}

		v.formErr = ""
		var cmd tea.Cmd
		v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

func (v LoginView) submit() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(v.inputs[fieldName].Value())
	email := strings.TrimSpace(v.inputs[fieldEmail].Value())
	password := v.inputs[fieldPassword].Value()

	if email == "" || password == "" {
		v.formErr = "Email and password are required"
		return v, nil
	}

	if v.mode == LoginModeSignup {
		if name == "" {
			v.formErr = "Name is required"
			return v, nil
		}
		req := SignupRequest{Name: name, Email: email, Password: password}
		return v, func() tea.Msg { return req }
	}

	req := LoginRequest{Email: email, Password: password}
	return v, func() tea.Msg { return req }
}

// View renders the login form
func (v LoginView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := "Sign in to taskboard"
	if v.mode == LoginModeSignup {
		title = "Create an account"
	}

	labels := map[int]string{
		fieldName:     "Name",
		fieldEmail:    "Email",
		fieldPassword: "Password",
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	for _, f := range v.fields() {
		box := styles.Input
		if f == v.focus {
			box = styles.InputFocused
		}
		b.WriteString(styles.Label.Render(labels[f]))
		b.WriteString("\n")
		b.WriteString(box.Width(36).Render(v.inputs[f].View()))
		b.WriteString("\n")
	}

	switch {
	case v.auth.Pending:
		verb := "Signing in"
		if v.mode == LoginModeSignup {
			verb = "Creating account"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(t.Info).Render(v.spinner.View() + " " + verb + "..."))
	case v.formErr != "":
		b.WriteString(styles.ErrorText.Render(v.formErr))
	case v.auth.Error != "":
		b.WriteString(styles.ErrorText.Render(v.auth.Error))
	}
	b.WriteString("\n\n")

	switchHint := "ctrl+n: sign up instead"
	if v.mode == LoginModeSignup {
		switchHint = "ctrl+n: log in instead"
	}
	b.WriteString(styles.HelpDesc.Render("enter: submit • tab: next field • " + switchHint))

	panel := styles.Panel.Render(b.String())
	if v.width == 0 || v.height == 0 {
		return panel
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, panel)
}

// IsInputMode reports that every key is text input on this screen
func (v LoginView) IsInputMode() bool {
	return true
}

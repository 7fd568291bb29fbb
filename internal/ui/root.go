package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskboard/internal/app"
	"github.com/dori/taskboard/internal/notify"
	"github.com/dori/taskboard/internal/store"
	"github.com/dori/taskboard/internal/ui/theme"
	"github.com/dori/taskboard/internal/ui/views"
)

const tickInterval = time.Second

// RootModel is the main application model. It shows the login screen until a
// user is signed in, then the board.
type RootModel struct {
	ctx    context.Context
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	screen      Screen
	loginView   views.LoginView
	kanbanView  views.KanbanView
	helpVisible bool
}

// NewRootModel creates a new root model
func NewRootModel(ctx context.Context, application *app.App) RootModel {
	h := help.New()
	h.ShowAll = true

	if t, ok := theme.ByName(application.Config.UI.Theme); ok {
		theme.SetTheme(t)
	}

	m := RootModel{
		ctx:        ctx,
		app:        application,
		keys:       DefaultKeyMap(),
		help:       h,
		screen:     ScreenLogin,
		loginView:  views.NewLoginView(),
		kanbanView: views.NewKanbanView(application.Store.Tasks(), application.Notifier),
	}
	if application.Store.Auth().LoggedIn() {
		m.screen = ScreenBoard
	}
	return m
}

// Screen returns the screen being shown
func (m RootModel) Screen() Screen {
	return m.screen
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return tea.Batch(m.loginView.Init(), tick())
}

func (m RootModel) isInputMode() bool {
	if m.screen == ScreenLogin {
		return m.loginView.IsInputMode()
	}
	return m.kanbanView.IsInputMode()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	session := m.app.Session

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Header takes one line, footer up to three
		contentHeight := m.height - 4
		m.loginView = m.loginView.SetSize(m.width, contentHeight)
		m.kanbanView = m.kanbanView.SetSize(m.width, contentHeight)
		return m, nil

	case tickMsg:
		return m, tick()

	case views.LoginRequest:
		if m.app.Store.Auth().Pending {
			return m, nil
		}
		session.BeginAuth()
		m.loginView = m.loginView.SetAuth(m.app.Store.Auth())
		ctx, email, password := m.ctx, msg.Email, msg.Password
		return m, tea.Batch(m.loginView.Spin(), func() tea.Msg {
			u, err := session.Authenticate(ctx, email, password)
			return authDoneMsg{User: u, Err: err}
		})

	case views.SignupRequest:
		if m.app.Store.Auth().Pending {
			return m, nil
		}
		session.BeginAuth()
		m.loginView = m.loginView.SetAuth(m.app.Store.Auth())
		ctx, req := m.ctx, msg
		return m, tea.Batch(m.loginView.Spin(), func() tea.Msg {
			u, err := session.Register(ctx, req.Email, req.Password, req.Name)
			return authDoneMsg{User: u, Err: err}
		})

	case authDoneMsg:
		err := session.CompleteLogin(m.ctx, msg.User, msg.Err)
		m.loginView = m.loginView.SetAuth(m.app.Store.Auth())
		if err == nil {
			m.screen = ScreenBoard
			m.app.Notifier.Success(fmt.Sprintf("Welcome, %s", msg.User.Name))
		}
		return m, nil

	case tea.KeyMsg:
		// Typing after a failed attempt clears the error
		if m.screen == ScreenLogin && m.app.Store.Auth().Error != "" {
			session.ClearError()
			m.loginView = m.loginView.SetAuth(m.app.Store.Auth())
		}

		inputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, 'q' only outside text input
			if msg.String() == "ctrl+c" || !inputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			next := theme.Next()
			theme.SetTheme(next)
			m.app.Notifier.Success(fmt.Sprintf("Theme: %s", next.Name))
			return m, nil
		}

		if inputMode {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			return m, nil

		case key.Matches(msg, m.keys.Logout):
			m.app.Notifier.Dismiss()
			if err := session.Logout(m.ctx); err != nil {
				m.app.Notifier.Error("Signed out, but the saved session could not be removed")
			}
			m.screen = ScreenLogin
			m.helpVisible = false
			m.loginView = m.loginView.Reset().SetAuth(m.app.Store.Auth())
			return m, m.loginView.Init()
		}

		if m.helpVisible && msg.String() == "esc" {
			m.helpVisible = false
			return m, nil
		}
	}

	m.loginView = m.loginView.SetAuth(m.app.Store.Auth())

	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		var next tea.Model
		next, cmd = m.loginView.Update(msg)
		m.loginView = next.(views.LoginView)
	case ScreenBoard:
		var next tea.Model
		next, cmd = m.kanbanView.Update(msg)
		m.kanbanView = next.(views.KanbanView)
	}
	return m, cmd
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	contentHeight := m.height - 4
	if _, ok := m.app.Notifier.Current(); ok {
		contentHeight--
	}

	var content string
	switch {
	case m.helpVisible:
		content = m.renderHelp()
	case m.screen == ScreenLogin:
		content = m.loginView.View()
	default:
		content = m.kanbanView.View()
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}

	return strings.Join([]string{m.renderHeader(), content, m.renderFooter()}, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("taskboard")

	subtle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)

	left := []string{title}
	if m.screen == ScreenBoard {
		view := "Board"
		if m.app.Store.Tasks().Prefs().ViewMode == store.ViewList {
			view = "List"
		}
		left = append(left, subtle.Render(fmt.Sprintf("[%s]", view)))
	} else {
		left = append(left, subtle.Render(fmt.Sprintf("[%s]", m.screen)))
	}
	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, left...)

	var right []string
	if u := m.app.Store.Auth().User; u != nil {
		right = append(right, lipgloss.NewStyle().Foreground(t.Secondary).Padding(0, 1).Render("Welcome, "+u.Name))
	}
	right = append(right, subtle.Render(fmt.Sprintf("theme: %s", t.Name)))
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center, right...)

	gap := max(m.width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 0)
	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the toast and key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if toast, ok := m.app.Notifier.Current(); ok {
		color := t.Success
		if toast.Kind == notify.KindError {
			color = t.Error
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(color).Render(toast.Message))
	}

	switch {
	case m.helpVisible:
		lines = append(lines, key("?/esc", "close help"))

	case m.screen == ScreenLogin:
		lines = append(lines, key("enter", "submit")+sep+key("tab", "next field")+sep+
			key("ctrl+n", "login/signup")+sep+key("ctrl+c", "quit"))

	case m.kanbanView.IsInputMode():
		switch m.kanbanView.Mode() {
		case views.KanbanModeConfirmDelete:
			lines = append(lines, key("y", "delete")+sep+key("n", "keep"))
		case views.KanbanModeLabels:
			lines = append(lines, key("space", "toggle")+sep+key("esc", "done"))
		default:
			lines = append(lines, key("enter", "confirm")+sep+key("esc", "cancel"))
		}

	default:
		lines = append(lines,
			key("h/l", "columns")+sep+
				key("j/k", "navigate")+sep+
				key("H/L", "move task")+sep+
				key("a", "add")+sep+
				key("A", "quick add")+sep+
				key("enter", "edit")+sep+
				key("d", "del")+sep+
				key("p", "priority")+sep+
				key("#", "label"),
			key("/", "search")+sep+
				key("t", "labels")+sep+
				key("s", "sort")+sep+
				key("v", "board/list")+sep+
				key("ctrl+x", "logout")+sep+
				key("ctrl+t", "theme")+sep+
				key("?", "help"))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Info).
		Bold(true).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("taskboard help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Quick add (A)"))
	b.WriteString("\n")
	syntax := [][]string{
		{"#label", "Add a label (at most two)"},
		{"!high", "Priority: low, medium, high, critical"},
		{"@name", "Assignee"},
		{"~7.5", "Score"},
		{"status:todo", "Column: draft, todo, in-progress, under-review, done"},
	}
	for _, kv := range syntax {
		b.WriteString(keyStyle.Render(kv[0]))
		b.WriteString(descStyle.Render(kv[1]))
		b.WriteString("\n")
	}

	return b.String()
}

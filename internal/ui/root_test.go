package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/dori/taskboard/internal/app"
	"github.com/dori/taskboard/internal/config"
	"github.com/dori/taskboard/internal/ui/theme"
	"github.com/dori/taskboard/internal/ui/views"
)

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	t.Setenv("TASKBOARD_DATA_DIR", t.TempDir())
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	logger, _ := test.NewNullLogger()
	a, err := app.New(context.Background(), cfg, app.WithLogger(logger), app.WithAuthTimer(immediate))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	prev := theme.Current.Theme
	t.Cleanup(func() { theme.SetTheme(prev) })
	return a
}

func update(t *testing.T, m RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(RootModel), cmd
}

// authResult runs the commands returned for an auth request and returns the
// auth result among them
func authResult(t *testing.T, cmd tea.Cmd) authDoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("no command returned for auth request")
	}
	cmds := []tea.Cmd{cmd}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		cmds = batch
	}
	for _, c := range cmds {
		if c == nil {
			continue
		}
		if done, ok := c().(authDoneMsg); ok {
			return done
		}
	}
	t.Fatal("auth command not found")
	return authDoneMsg{}
}

func TestLoginFlow(t *testing.T) {
	a := newTestApp(t)
	m := NewRootModel(context.Background(), a)
	if m.Screen() != ScreenLogin {
		t.Fatalf("screen = %s, want Login", m.Screen())
	}

	m, cmd := update(t, m, views.LoginRequest{Email: "piyush@gmail.com", Password: "password"})
	if !a.Store.Auth().Pending {
		t.Error("auth not pending after request")
	}

	m, _ = update(t, m, authResult(t, cmd))

	if m.Screen() != ScreenBoard {
		t.Errorf("screen = %s, want Board", m.Screen())
	}
	auth := a.Store.Auth()
	if auth.Pending || auth.User == nil || auth.User.Name != "Piyush" {
		t.Errorf("auth = %+v", auth)
	}
	cached, err := a.Cache.Load(context.Background())
	if err != nil || cached == nil || cached.Email != "piyush@gmail.com" {
		t.Errorf("cached = %+v, %v", cached, err)
	}
	if toast, ok := a.Notifier.Current(); !ok || toast.Message != "Welcome, Piyush" {
		t.Errorf("toast = %+v", toast)
	}
}

func TestLoginFailureStaysOnLogin(t *testing.T) {
	a := newTestApp(t)
	m := NewRootModel(context.Background(), a)

	m, cmd := update(t, m, views.LoginRequest{Email: "piyush@gmail.com", Password: "wrong"})
	m, _ = update(t, m, authResult(t, cmd))

	if m.Screen() != ScreenLogin {
		t.Errorf("screen = %s, want Login", m.Screen())
	}
	if got := a.Store.Auth().Error; got != "Invalid credentials" {
		t.Errorf("error = %q", got)
	}

	update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if got := a.Store.Auth().Error; got != "" {
		t.Errorf("typing did not clear the error: %q", got)
	}
}

func TestSignupFlow(t *testing.T) {
	a := newTestApp(t)
	m := NewRootModel(context.Background(), a)

	m, cmd := update(t, m, views.SignupRequest{Name: "Asha", Email: "asha@example.com", Password: "pw"})
	m, _ = update(t, m, authResult(t, cmd))

	if m.Screen() != ScreenBoard {
		t.Errorf("screen = %s, want Board", m.Screen())
	}
	u := a.Store.Auth().User
	if u == nil || u.Name != "Asha" || u.ID == "" {
		t.Errorf("user = %+v", u)
	}
}

func TestRequestIgnoredWhilePending(t *testing.T) {
	a := newTestApp(t)
	m := NewRootModel(context.Background(), a)

	m, _ = update(t, m, views.LoginRequest{Email: "piyush@gmail.com", Password: "password"})
	_, cmd := update(t, m, views.LoginRequest{Email: "piyush@gmail.com", Password: "password"})

	if cmd != nil {
		t.Error("second request started while the first was pending")
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	if err := a.Session.Login(ctx, "piyush@gmail.com", "password"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	m := NewRootModel(ctx, a)
	if m.Screen() != ScreenBoard {
		t.Fatalf("logged-in user started on %s", m.Screen())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})

	if m.Screen() != ScreenLogin {
		t.Errorf("screen = %s, want Login", m.Screen())
	}
	if a.Store.Auth().LoggedIn() {
		t.Error("user still set after logout")
	}
	if cached, _ := a.Cache.Load(ctx); cached != nil {
		t.Errorf("cache still holds %+v", cached)
	}
}

func TestQuitKeys(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	m := NewRootModel(ctx, a)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command on the login screen")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}

	if err := a.Session.Login(ctx, "piyush@gmail.com", "password"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	m = NewRootModel(ctx, a)
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command on the board")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit on the board")
	}
}

func TestThemeCycle(t *testing.T) {
	a := newTestApp(t)
	m := NewRootModel(context.Background(), a)
	before := theme.Current.Theme.Name

	update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})

	if theme.Current.Theme.Name == before {
		t.Errorf("theme still %s", before)
	}
}

func TestViewShowsHeader(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	if err := a.Session.Login(ctx, "piyush@gmail.com", "password"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	m := NewRootModel(ctx, a)

	if m.View() != "Loading..." {
		t.Error("view rendered before the first size message")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	out := m.View()
	for _, want := range []string{"taskboard", "[Board]", "Welcome, Piyush"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !strings.Contains(m.View(), "Quick add (A)") {
		t.Error("help overlay not shown")
	}
}

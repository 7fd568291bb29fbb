package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/dori/taskboard/internal/config"
	"github.com/dori/taskboard/internal/store"
)

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("TASKBOARD_DATA_DIR", t.TempDir())
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	logger, _ := test.NewNullLogger()
	opts = append([]Option{WithLogger(logger), WithAuthTimer(immediate)}, opts...)
	a, err := New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewSeedsBoard(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	if a.DB == nil || a.Cache == nil {
		t.Fatal("sqlite cache not opened")
	}
	if n := a.Store.Tasks().Len(); n != 8 {
		t.Errorf("seeded %d tasks, want 8", n)
	}
	if a.Store.Auth().LoggedIn() {
		t.Error("fresh data dir restored a user")
	}
}

func TestUserSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first := newTestApp(t, cfg)
	if err := first.Session.Login(ctx, "piyush@gmail.com", "password"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	first.Close()

	second := newTestApp(t, cfg)
	u := second.Store.Auth().User
	if u == nil || u.Name != "Piyush" {
		t.Fatalf("restored user = %+v", u)
	}

	if err := second.Session.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	second.Close()

	third := newTestApp(t, cfg)
	if third.Store.Auth().LoggedIn() {
		t.Fatal("user restored after logout")
	}
}

func TestTasksAreNotPersisted(t *testing.T) {
	cfg := testConfig(t)

	first := newTestApp(t, cfg)
	first.Store.Tasks().DeleteTask("1")
	first.Close()

	second := newTestApp(t, cfg)
	if _, ok := second.Store.Tasks().Task("1"); !ok {
		t.Fatal("task deletion survived restart")
	}
}

func TestConfigPrefsApplied(t *testing.T) {
	cfg := testConfig(t)
	cfg.UI.View = store.ViewList
	cfg.UI.Sort = store.SortByTitle

	a := newTestApp(t, cfg)
	prefs := a.Store.Tasks().Prefs()
	if prefs.ViewMode != store.ViewList || prefs.SortBy != store.SortByTitle {
		t.Fatalf("prefs = %+v", prefs)
	}
}

func TestSingleInstanceLock(t *testing.T) {
	cfg := testConfig(t)
	newTestApp(t, cfg, WithSingleInstance())

	logger, _ := test.NewNullLogger()
	_, err := New(context.Background(), cfg, WithLogger(logger), WithSingleInstance())
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Cache.Backend = config.BackendRedis
	cfg.Cache.RedisURL = "redis://" + mr.Addr()

	a := newTestApp(t, cfg)
	if a.Redis == nil || a.DB != nil {
		t.Fatal("redis backend not selected")
	}

	if err := a.Session.Login(context.Background(), "piyush@gmail.com", "password"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !mr.Exists(cfg.Cache.Prefix + "user") {
		t.Fatal("user not written to redis")
	}
}

func TestRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Cache.Backend = config.BackendRedis
	cfg.Cache.RedisURL = "redis://" + addr

	logger, _ := test.NewNullLogger()
	if _, err := New(context.Background(), cfg, WithLogger(logger)); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}

func TestMemoryBackendForgetsUser(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = config.BackendMemory
	ctx := context.Background()

	first := newTestApp(t, cfg)
	if first.DB != nil {
		t.Error("memory backend opened the database")
	}
	if err := first.Session.Login(ctx, "piyush@gmail.com", "password"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	first.Close()

	second := newTestApp(t, cfg)
	if second.Store.Auth().LoggedIn() {
		t.Error("memory backend kept the user across instances")
	}
}

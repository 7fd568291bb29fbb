package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/dori/taskboard/internal/auth"
	"github.com/dori/taskboard/internal/cache"
	"github.com/dori/taskboard/internal/config"
	"github.com/dori/taskboard/internal/db"
	"github.com/dori/taskboard/internal/logging"
	"github.com/dori/taskboard/internal/notify"
	"github.com/dori/taskboard/internal/seed"
	"github.com/dori/taskboard/internal/session"
	"github.com/dori/taskboard/internal/store"
)

// ErrAlreadyRunning is returned when another TUI holds the data dir lock
var ErrAlreadyRunning = errors.New("another instance of taskboard is already running")

// LockFile is the single-instance lock in the data directory
const LockFile = "taskboard.lock"

const redisPingTimeout = 2 * time.Second

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Log      *log.Logger
	DB       *db.DB
	Redis    *redis.Client
	Cache    cache.UserCache
	Store    *store.Store
	Session  *session.Session
	Notifier *notify.Notifier
	DataDir  string

	lockFile *flock.Flock
	logFile  io.Closer
}

type options struct {
	lock   bool
	logger *log.Logger
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time
}

// Option configures New
type Option func(*options)

// WithSingleInstance takes the data dir lock; the TUI uses it, one-shot
// commands don't
func WithSingleInstance() Option {
	return func(o *options) { o.lock = true }
}

// WithLogger uses logger instead of opening the log file
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock overrides the store clock
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithAuthTimer overrides the timer used for simulated auth latency
func WithAuthTimer(after func(time.Duration) <-chan time.Time) Option {
	return func(o *options) { o.after = after }
}

// New creates a new application instance and restores any cached user
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(notify.WithDesktop(cfg.Notify.Desktop)),
	}

	if o.logger != nil {
		app.Log = o.logger
	} else {
		logger, closer, err := logging.OpenFile(cfg.DataDir, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		app.Log, app.logFile = logger, closer
	}

	if o.lock {
		if err := app.acquireLock(); err != nil {
			app.Close()
			return nil, err
		}
	}

	if err := app.openCache(ctx); err != nil {
		app.Close()
		return nil, err
	}

	tasks, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Store = store.New(store.WithClock(o.now), store.WithTasks(tasks))
	app.Store.Tasks().SetSortBy(cfg.UI.Sort)
	app.Store.Tasks().SetViewMode(cfg.UI.View)

	authOpts := []auth.Option{auth.WithLatency(cfg.Auth.Latency)}
	if o.after != nil {
		authOpts = append(authOpts, auth.WithTimer(o.after))
	}
	authenticator := auth.New(cfg.Account(), authOpts...)

	app.Session = session.New(app.Store, authenticator, app.Cache, app.Log.WithField("component", "session"))
	app.Session.Restore(ctx)

	app.Log.WithFields(log.Fields{
		"cache": cfg.Cache.Backend,
		"tasks": app.Store.Tasks().Len(),
	}).Info("taskboard started")

	return app, nil
}

func (a *App) openCache(ctx context.Context) error {
	switch a.Config.Cache.Backend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(a.Config.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid cache.redis_url: %w", err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		a.Redis = client
		a.Cache = cache.NewRedis(client, a.Config.Cache.Prefix)

	case config.BackendMemory:
		// Nothing survives the process
		a.Cache = cache.NewMemory()

	default:
		database, err := db.Open(db.PathIn(a.DataDir))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.DB = database
		a.Cache = cache.NewSQLite(database)
	}
	return nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	a.lockFile = flock.New(filepath.Join(a.DataDir, LockFile))

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	return nil
}

func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	a.releaseLock()

	if a.logFile != nil {
		a.logFile.Close()
	}

	return errors.Join(errs...)
}

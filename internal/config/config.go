// Package config loads taskboard settings from an optional config.yaml in the
// data directory, TASKBOARD_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dori/taskboard/internal/auth"
	"github.com/dori/taskboard/internal/db"
	"github.com/dori/taskboard/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g. TASKBOARD_CACHE_BACKEND
const EnvPrefix = "TASKBOARD"

// Cache backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds application configuration
type Config struct {
	DataDir  string
	SeedFile string
	Cache    CacheConfig
	Auth     AuthConfig
	UI       UIConfig
	Log      LogConfig
	Notify   NotifyConfig
}

// CacheConfig selects where the signed-in user is kept
type CacheConfig struct {
	Backend  string
	RedisURL string
	Prefix   string
}

// AuthConfig is the mock account and its simulated latency
type AuthConfig struct {
	Latency  time.Duration
	Email    string
	Password string
	Name     string
}

// UIConfig holds the TUI start-up preferences
type UIConfig struct {
	Theme string
	View  store.ViewMode
	Sort  store.SortKey
}

type LogConfig struct {
	Level string
}

type NotifyConfig struct {
	Desktop bool
}

// Account returns the accepted login built from the auth section
func (c *Config) Account() auth.Account {
	acct := auth.DefaultAccount()
	acct.Email = c.Auth.Email
	acct.Password = c.Auth.Password
	acct.User.Name = c.Auth.Name
	acct.User.Email = c.Auth.Email
	return acct
}

func setDefaults(v *viper.Viper) {
	acct := auth.DefaultAccount()

	v.SetDefault("data_dir", db.DefaultDataDir())
	v.SetDefault("seed.file", "")
	v.SetDefault("cache.backend", BackendSQLite)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.prefix", "taskboard:")
	v.SetDefault("auth.latency", auth.DefaultLatency)
	v.SetDefault("auth.email", acct.Email)
	v.SetDefault("auth.password", acct.Password)
	v.SetDefault("auth.name", acct.User.Name)
	v.SetDefault("ui.theme", "nord")
	v.SetDefault("ui.view", string(store.ViewBoard))
	v.SetDefault("ui.sort", string(store.SortByDate))
	v.SetDefault("log.level", "info")
	v.SetDefault("notify.desktop", false)
}

// Load reads configuration. An explicit path must exist; otherwise config.yaml
// is looked up in the data directory and defaults apply when it is missing.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DataDir:  os.ExpandEnv(v.GetString("data_dir")),
		SeedFile: v.GetString("seed.file"),
		Cache: CacheConfig{
			Backend:  strings.ToLower(v.GetString("cache.backend")),
			RedisURL: v.GetString("cache.redis_url"),
			Prefix:   v.GetString("cache.prefix"),
		},
		Auth: AuthConfig{
			Latency:  v.GetDuration("auth.latency"),
			Email:    v.GetString("auth.email"),
			Password: v.GetString("auth.password"),
			Name:     v.GetString("auth.name"),
		},
		UI: UIConfig{
			Theme: v.GetString("ui.theme"),
			View:  store.ViewMode(strings.ToLower(v.GetString("ui.view"))),
		},
		Log:    LogConfig{Level: v.GetString("log.level")},
		Notify: NotifyConfig{Desktop: v.GetBool("notify.desktop")},
	}

	sortKey, ok := store.ParseSortKey(v.GetString("ui.sort"))
	if !ok {
		return nil, fmt.Errorf("invalid ui.sort %q", v.GetString("ui.sort"))
	}
	cfg.UI.Sort = sortKey

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that can't be defaulted away
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}

	if c.UI.View != store.ViewBoard && c.UI.View != store.ViewList {
		return fmt.Errorf("invalid ui.view %q", c.UI.View)
	}
	if c.Auth.Latency < 0 {
		return fmt.Errorf("auth.latency must not be negative, got %s", c.Auth.Latency)
	}
	if strings.TrimSpace(c.Auth.Email) == "" {
		return errors.New("auth.email must not be empty")
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	return nil
}

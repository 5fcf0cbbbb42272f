// Package config loads rootquery settings from config files, .env files and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	configName = ".rootquery"
	envPrefix  = "ROOTQUERY"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL  string
	Provider     string
	QueryTimeout time.Duration
	MaxOpenConns int
	MaxIdleConns int
	Telemetry    string
	Debug        bool
	Retry        RetryConfig
}

// RetryConfig controls retries of connection failures.
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.QueryTimeout < 0 {
		errs = append(errs, fmt.Errorf("query_timeout must not be negative, got %s", c.QueryTimeout))
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		errs = append(errs, errors.New("pool sizes must not be negative"))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts))
	}
	return errors.Join(errs...)
}

// Loader reads configuration through a file system.
type Loader struct {
	fs     afero.Fs
	v      *viper.Viper
	paths  []string
	envDir string
	file   string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSearchPaths replaces the directories searched for .rootquery.yaml.
func WithSearchPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.paths = paths
	}
}

// WithConfigFile reads an explicit config file instead of searching.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) {
		l.file = path
	}
}

// WithEnvDir sets the directory holding .env and .env.local.
func WithEnvDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.envDir = dir
	}
}

// NewLoader creates a loader over fs. By default it searches the working
// directory, $HOME and $HOME/.config/rootquery.
func NewLoader(fs afero.Fs, opts ...LoaderOption) (*Loader, error) {
	l := &Loader{fs: fs, v: viper.New(), envDir: "."}
	for _, opt := range opts {
		opt(l)
	}

	if l.paths == nil {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		l.paths = []string{".", home, filepath.Join(home, ".config", "rootquery")}
	}

	l.v.SetFs(fs)
	l.v.SetConfigName(configName)
	l.v.SetConfigType("yaml")
	for _, p := range l.paths {
		l.v.AddConfigPath(p)
	}
	if l.file != "" {
		l.v.SetConfigFile(l.file)
	}

	l.v.SetEnvPrefix(envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
	if err := l.v.BindEnv("database_url", envPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}

	l.v.SetDefault("query_timeout", 30*time.Second)
	l.v.SetDefault("pool.max_open_conns", 25)
	l.v.SetDefault("pool.max_idle_conns", 5)
	l.v.SetDefault("telemetry", "noop")
	l.v.SetDefault("debug", false)
	l.v.SetDefault("retry.max_attempts", 3)
	l.v.SetDefault("retry.initial_backoff", 100*time.Millisecond)
	l.v.SetDefault("retry.max_backoff", 5*time.Second)
	return l, nil
}

// Load reads .env, .env.local and the config file, then resolves settings
// with environment variables taking precedence.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDotEnv(".env", false); err != nil {
		return nil, err
	}
	// .env.local overrides .env and the inherited environment.
	if err := l.loadDotEnv(".env.local", true); err != nil {
		return nil, err
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:  l.v.GetString("database_url"),
		Provider:     l.v.GetString("provider"),
		QueryTimeout: l.v.GetDuration("query_timeout"),
		MaxOpenConns: l.v.GetInt("pool.max_open_conns"),
		MaxIdleConns: l.v.GetInt("pool.max_idle_conns"),
		Telemetry:    l.v.GetString("telemetry"),
		Debug:        l.v.GetBool("debug"),
		Retry: RetryConfig{
			MaxAttempts:    l.v.GetInt("retry.max_attempts"),
			InitialBackoff: l.v.GetDuration("retry.initial_backoff"),
			MaxBackoff:     l.v.GetDuration("retry.max_backoff"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFileUsed returns the config file read by Load, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) loadDotEnv(name string, override bool) error {
	path := filepath.Join(l.envDir, name)
	f, err := l.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for k, v := range vars {
		if _, exists := os.LookupEnv(k); exists && !override {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Save writes cfg as YAML to path.
func (l *Loader) Save(cfg *Config, path string) error {
	l.v.Set("database_url", cfg.DatabaseURL)
	l.v.Set("provider", cfg.Provider)
	l.v.Set("query_timeout", cfg.QueryTimeout.String())
	l.v.Set("pool.max_open_conns", cfg.MaxOpenConns)
	l.v.Set("pool.max_idle_conns", cfg.MaxIdleConns)
	l.v.Set("telemetry", cfg.Telemetry)
	l.v.Set("debug", cfg.Debug)
	l.v.Set("retry.max_attempts", cfg.Retry.MaxAttempts)
	l.v.Set("retry.initial_backoff", cfg.Retry.InitialBackoff.String())
	l.v.Set("retry.max_backoff", cfg.Retry.MaxBackoff.String())

	if err := l.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return l.v.WriteConfigAs(path)
}

// DefaultConfigPath returns ./.rootquery.yaml.
func DefaultConfigPath() string {
	return configName + ".yaml"
}

// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/wangchingta/exam-site/internal/selection"
	"github.com/wangchingta/exam-site/internal/store"
)

// Prefix is the environment variable prefix, e.g. QUIZ_BANK.
const Prefix = "quiz"

const appDir = "examsite"

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"` // json or console
	File   string `envconfig:"FILE"`                  // "-" for stderr
}

// Config holds every runtime setting.
type Config struct {
	Bank         string        `envconfig:"BANK" default:"data/merged_questions.json"`
	Storage      string        `envconfig:"STORAGE" default:"sqlite"`
	DB           string        `envconfig:"DB"`
	StateDir     string        `envconfig:"STATE_DIR"`
	RedisURL     string        `envconfig:"REDIS_URL"`
	RedisPrefix  string        `envconfig:"REDIS_PREFIX" default:"examsite:"`
	Policy       string        `envconfig:"POLICY" default:"weighted"`
	Seed         int64         `envconfig:"SEED" default:"0"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	Log          LogConfig     `envconfig:"LOG"`
}

// Load reads .env files (if present) and then the QUIZ_* environment.
// Paths left empty are filled from the data directory.
func Load(dotenvFiles ...string) (*Config, error) {
	if err := loadDotenv(dotenvFiles...); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotenv loads the given files, or .env when none are named. Missing
// files are skipped; existing variables are never overridden.
func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", f, err)
	}
	return nil
}

func (c *Config) fillPaths() error {
	if c.DB != "" && c.StateDir != "" && c.Log.File != "" {
		return nil
	}
	dir, err := DataDir()
	if err != nil {
		return err
	}
	if c.DB == "" {
		c.DB = filepath.Join(dir, appDir+".db")
	}
	if c.StateDir == "" {
		c.StateDir = filepath.Join(dir, "state")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dir, appDir+".log")
	}
	return nil
}

// Validate rejects unknown backend and policy names.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(store.Backends(), c.Storage) {
		errs = append(errs, fmt.Errorf("unknown storage %q (want one of %v)", c.Storage, store.Backends()))
	}
	if !slices.Contains(selection.Names(), c.Policy) {
		errs = append(errs, fmt.Errorf("unknown policy %q (want one of %v)", c.Policy, selection.Names()))
	}
	if c.Storage == store.BackendRedis && c.RedisURL == "" {
		errs = append(errs, errors.New("redis storage needs QUIZ_REDIS_URL"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout))
	}
	return errors.Join(errs...)
}

// StoreOptions maps the storage settings onto store.Options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     c.Storage,
		DBPath:      c.DB,
		StateDir:    c.StateDir,
		RedisURL:    c.RedisURL,
		RedisPrefix: c.RedisPrefix,
	}
}

// DataDir returns the directory for the database, state files and logs:
//  1. $XDG_DATA_HOME/examsite
//  2. ~/.local/share/examsite
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appDir), nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by KV.Get when the key has never been written.
	ErrNotFound = errors.New("store: key not found")

	// ErrInvalidKey is returned for keys a backend cannot represent.
	ErrInvalidKey = errors.New("store: invalid key")
)

// Storage keys. Each holds one whole JSON value.
const (
	KeyState       = "quizState"
	KeyShowCounts  = "showCounts"
	KeyWrongCounts = "wrongCounts"
)

// Keys lists every key the quiz writes.
func Keys() []string {
	return []string{KeyState, KeyShowCounts, KeyWrongCounts}
}

// KV is durable key/value storage. Set replaces the whole value atomically;
// a reader sees either the old value or the new one, never a mix.
type KV interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by OpenKV.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backends lists the available backend names.
func Backends() []string {
	return []string{BackendSQLite, BackendFile, BackendRedis, BackendMemory}
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	DBPath      string // sqlite
	StateDir    string // file
	RedisURL    string // redis
	RedisPrefix string // redis
}

// OpenKV opens the configured backend.
func OpenKV(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		if err := EnsureDir(opts.DBPath); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		s, err := OpenSQLite(ctx, opts.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		f, err := NewFile(opts.StateDir)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendRedis:
		r, err := NewRedis(ctx, opts.RedisURL, opts.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return r, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

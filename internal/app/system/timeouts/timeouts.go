// Package timeouts provides centralized timeout values for handler operations.
//
// These timeouts bound context.WithTimeout around corpus I/O in HTTP
// handlers. Using centralized values ensures consistency and makes it
// easy to adjust budgets across the application as the corpus grows.
//
// Timeouts can be configured at startup using Configure(). If not
// configured, sensible defaults are used.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks verifying the corpus root is reachable
//   - Short: single-document loads and saves
//   - Scan: full-corpus directory walks (token and username lookups)
//   - Long: multi-document sequences and shared collection rewrites
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing  = 2 * time.Second
	DefaultShort = 5 * time.Second
	DefaultScan  = 15 * time.Second
	DefaultLong  = 30 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

// Configurable timeout values. These start with defaults and can be
// overridden by calling Configure(). Access via getter functions.
var (
	ping  = DefaultPing
	short = DefaultShort
	scan  = DefaultScan
	long  = DefaultLong
)

// Ping returns the timeout for health checks.
// Used by health endpoints to verify the corpus root is reachable.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for single-document operations.
// Examples: load a profile by path, save an updated document.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Scan returns the timeout for full-corpus walks. Token and username
// lookups visit every account directory, so this budget has to scale
// with the deployment's account count.
func Scan() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return scan
}

// Long returns the timeout for operations touching several documents.
// Examples: follow (two profile writes), rewriting a shared collection.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping  time.Duration
	Short time.Duration
	Scan  time.Duration
	Long  time.Duration
}

// Configure sets custom timeout values. Zero values in the config are
// ignored, keeping the current (or default) values. This should be
// called during application startup before handlers are registered.
//
// Example:
//
//	timeouts.Configure(timeouts.Config{
//	    Scan: 60 * time.Second,  // large corpus
//	})
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Scan > 0 {
		scan = cfg.Scan
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	scan = DefaultScan
	long = DefaultLong
}

// ConfigureFromEnv reads timeout configuration from environment variables.
// Environment variables (all optional, defaults used if not set or invalid):
//   - TIMEOUT_PING: e.g., "2s", "500ms"
//   - TIMEOUT_SHORT: e.g., "5s"
//   - TIMEOUT_SCAN: e.g., "15s", "1m"
//   - TIMEOUT_LONG: e.g., "30s"
//
// Returns the number of timeouts successfully configured from environment.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	configured := 0

	if v := os.Getenv("TIMEOUT_PING"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ping = d
			configured++
		}
	}
	if v := os.Getenv("TIMEOUT_SHORT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			short = d
			configured++
		}
	}
	if v := os.Getenv("TIMEOUT_SCAN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			scan = d
			configured++
		}
	}
	if v := os.Getenv("TIMEOUT_LONG"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			long = d
			configured++
		}
	}

	return configured
}

// Current returns the current timeout configuration as a Config struct.
// Useful for logging or debugging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{
		Ping:  ping,
		Short: short,
		Scan:  scan,
		Long:  long,
	}
}

// WithTimeout creates a context with timeout and returns a cancel
// function that logs a warning if the context was canceled due to
// deadline exceeded. Use this for corpus scans and other operations
// where timeout debugging matters.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Scan(), h.Log, "token lookup")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}

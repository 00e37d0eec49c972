// Package ratelimit provides per-client request limiting.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidConfig is returned by constructors for a non-positive limit or window.
var ErrInvalidConfig = errors.New("rate limit requests and window must be positive")

// Result contains the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	Close() error
}

// Config holds rate limiter configuration.
type Config struct {
	Requests int
	Window   time.Duration
}

// Validate reports whether the config can build a limiter.
func (c Config) Validate() error {
	if c.Requests <= 0 || c.Window <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a sliding window limiter for a single process.
type MemoryLimiter struct {
	cfg       Config
	now       func() time.Time
	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter creates an in-memory limiter.
func NewMemoryLimiter(cfg Config) (*MemoryLimiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MemoryLimiter{
		cfg:  cfg,
		now:  time.Now,
		hits: make(map[string][]time.Time),
	}, nil
}

// Allow records a hit for key if it is within the limit.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := m.now()
	cutoff := now.Add(-m.cfg.Window)

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= m.cfg.Window {
		m.sweep(cutoff)
		m.lastSweep = now
	}

	hits := trim(m.hits[key], cutoff)

	if len(hits) >= m.cfg.Requests {
		m.hits[key] = hits
		return &Result{
			Allowed:    false,
			Limit:      m.cfg.Requests,
			RetryAfter: hits[0].Add(m.cfg.Window).Sub(now),
		}, nil
	}

	m.hits[key] = append(hits, now)
	return &Result{
		Allowed:   true,
		Limit:     m.cfg.Requests,
		Remaining: m.cfg.Requests - len(hits) - 1,
	}, nil
}

// Close releases the tracked state.
func (m *MemoryLimiter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits = make(map[string][]time.Time)
	return nil
}

// sweep drops keys with no hits inside the window. Caller holds mu.
func (m *MemoryLimiter) sweep(cutoff time.Time) {
	for key, hits := range m.hits {
		if hits = trim(hits, cutoff); len(hits) == 0 {
			delete(m.hits, key)
		} else {
			m.hits[key] = hits
		}
	}
}

// trim drops timestamps at or before cutoff. hits is ordered oldest first.
func trim(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// Package ratelimit provides a fixed-window limiter with a block period,
// keyed by client.
//
// A key may make Attempts calls per Window. The call that exceeds the limit
// blocks the key for Block; after that the key starts over. The key map is
// bounded by MaxKeys: expired entries are swept, and when the map is still
// full the least recently seen key is evicted.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config holds rate limiter configuration.
type Config struct {
	Attempts int
	Window   time.Duration
	Block    time.Duration
	MaxKeys  int
}

// DefaultConfig returns the expense creation limits.
func DefaultConfig() Config {
	return Config{
		Attempts: 10,
		Window:   time.Minute,
		Block:    5 * time.Minute,
		MaxKeys:  10000,
	}
}

// Limiter is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	now     func() time.Time
	entries map[string]*entry
}

type entry struct {
	windowStart  time.Time
	attempts     int
	blockedUntil time.Time
	lastSeen     time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter. Non-positive fields fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *Limiter {
	def := DefaultConfig()
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Block < 0 {
		cfg.Block = def.Block
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = def.MaxKeys
	}

	l := &Limiter{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records an attempt for key. When the attempt is refused it also
// returns how long the key stays blocked.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		l.makeRoom(now)
		l.entries[key] = &entry{windowStart: now, attempts: 1, lastSeen: now}
		return true, 0
	}
	e.lastSeen = now

	if !e.blockedUntil.IsZero() {
		if now.Before(e.blockedUntil) {
			return false, e.blockedUntil.Sub(now)
		}
		*e = entry{windowStart: now, attempts: 1, lastSeen: now}
		return true, 0
	}

	if now.Sub(e.windowStart) > l.cfg.Window {
		e.windowStart = now
		e.attempts = 1
		return true, 0
	}

	e.attempts++
	if e.attempts > l.cfg.Attempts {
		e.blockedUntil = now.Add(l.cfg.Block)
		return false, l.cfg.Block
	}
	return true, 0
}

// Sweep removes keys whose window and block have both run out and reports
// how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweep(l.now())
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Run sweeps every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-ctx.Done():
			return nil
		}
	}
}

func (l *Limiter) expired(e *entry, now time.Time) bool {
	return now.Sub(e.windowStart) > l.cfg.Window && !now.Before(e.blockedUntil)
}

func (l *Limiter) sweep(now time.Time) int {
	removed := 0
	for key, e := range l.entries {
		if l.expired(e, now) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// makeRoom keeps the map under MaxKeys before an insert. Caller holds mu.
func (l *Limiter) makeRoom(now time.Time) {
	if len(l.entries) < l.cfg.MaxKeys {
		return
	}
	if l.sweep(now) > 0 && len(l.entries) < l.cfg.MaxKeys {
		return
	}

	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, e := range l.entries {
		if !found || e.lastSeen.Before(oldest) {
			oldestKey, oldest, found = key, e.lastSeen, true
		}
	}
	delete(l.entries, oldestKey)
}

package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited reports a run start rejected by the rate cap.
var ErrRateLimited = errors.New("run rate exceeded")

// RateLimiterConfig caps how often runs may start.
type RateLimiterConfig struct {
	// Name identifies the guarded pipeline in diagnostics.
	Name string
	// Rate is the sustained number of run starts per second.
	Rate float64
	// Burst is how many starts may happen back to back.
	Burst int
}

// RateLimiter is a token bucket over run starts. Each start consumes one
// token; tokens refill continuously at the configured rate up to the
// burst size.
type RateLimiter struct {
	config RateLimiterConfig

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a rate limiter. A non-positive rate falls back
// to 10 starts per second; a non-positive burst falls back to the rate.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10.0
	}
	if config.Burst <= 0 {
		config.Burst = int(config.Rate)
	}
	return &RateLimiter{
		config: config,
		tokens: float64(config.Burst),
		last:   time.Now(),
	}
}

// Allow consumes a token when one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens < 1 {
		return false
	}
	rl.tokens--
	return true
}

// Execute starts fn when the rate allows it, failing with ErrRateLimited
// otherwise. It never blocks waiting for a token.
func (rl *RateLimiter) Execute(fn func() error) error {
	if !rl.Allow() {
		return ErrRateLimited
	}
	return fn()
}

// refill credits tokens for the time elapsed since the last start.
// Callers must hold the mutex.
func (rl *RateLimiter) refill() {
	now := time.Now()
	rl.tokens += now.Sub(rl.last).Seconds() * rl.config.Rate
	rl.last = now

	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// Tokens returns the tokens currently available.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// Rate returns the sustained run starts per second.
func (rl *RateLimiter) Rate() float64 {
	return rl.config.Rate
}

// Burst returns the burst size.
func (rl *RateLimiter) Burst() int {
	return rl.config.Burst
}

package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig shapes how failed runs are reattempted.
type RetryConfig struct {
	// MaxAttempts caps the total number of run attempts, the first included.
	MaxAttempts int
	// InitialBackoff is the pause before the first reattempt.
	InitialBackoff time.Duration
	// MaxBackoff caps the pause between reattempts.
	MaxBackoff time.Duration
	// BackoffFactor multiplies the pause after every failed attempt.
	BackoffFactor float64
	// Jitter spreads each pause by +/- this fraction so reattempts from
	// concurrent callers do not land in lockstep.
	Jitter float64
	// RetryIf decides whether a failure is worth another attempt.
	RetryIf func(error) bool
	// OnRetry observes each reattempt before its backoff pause.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// DefaultRetryConfig returns the config substituted for zero values.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.1,
		RetryIf:        DefaultRetryIf,
	}
}

// DefaultRetryIf reattempts every failure except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// RetryFunc runs fn until it succeeds, the attempts are exhausted, or the
// context ends. The last failure is returned when no attempt succeeds.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	cfg = cfg.withDefaults()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !cfg.RetryIf(err) || attempt == cfg.MaxAttempts {
			return err
		}

		pause := cfg.backoff(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, pause)
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (cfg RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = def.BackoffFactor
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}
	return cfg
}

// backoff computes the pause after the given failed attempt.
func (cfg RetryConfig) backoff(attempt int) time.Duration {
	pause := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if cfg.Jitter > 0 {
		pause += (rand.Float64()*2 - 1) * pause * cfg.Jitter
	}
	if pause > float64(cfg.MaxBackoff) {
		pause = float64(cfg.MaxBackoff)
	}
	if pause < 0 {
		pause = float64(cfg.InitialBackoff)
	}
	return time.Duration(pause)
}

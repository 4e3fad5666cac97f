package resilience

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/pipeline"
)

// RunnerMiddleware decorates a pipeline runner with a resilience pattern.
// Decorators wrap the whole run, not individual stages.
type RunnerMiddleware func(pipeline.Runner) pipeline.Runner

// Chain applies middlewares to a runner. The first middleware is the
// outermost wrapper.
func Chain(r pipeline.Runner, mws ...RunnerMiddleware) pipeline.Runner {
	for i := len(mws) - 1; i >= 0; i-- {
		r = mws[i](r)
	}
	return r
}

// WithRetry retries the whole run per the retry config. Only retryable
// failures are attempted again; non-retryable AppErrors fail immediately.
func WithRetry(cfg RetryConfig) RunnerMiddleware {
	if cfg.RetryIf == nil {
		cfg.RetryIf = func(err error) bool {
			if !DefaultRetryIf(err) {
				return false
			}
			if appErr, ok := apperrors.AsAppError(err); ok {
				return appErr.Retryable
			}
			return true
		}
	}
	return func(next pipeline.Runner) pipeline.Runner {
		return func(req, res any) error {
			return RetryFunc(runnerContext(req), cfg, func() error {
				return next(req, res)
			})
		}
	}
}

// WithTimeout bounds how long the caller waits for a run. On expiry the
// caller gets a RUN_TIMEOUT failure; the run itself keeps executing in the
// background since stages cannot be interrupted mid-flight.
func WithTimeout(name string, timeout time.Duration) RunnerMiddleware {
	return func(next pipeline.Runner) pipeline.Runner {
		return func(req, res any) error {
			done := make(chan error, 1)
			go func() {
				done <- next(req, res)
			}()

			timer := time.NewTimer(timeout)
			defer timer.Stop()

			select {
			case err := <-done:
				return err
			case <-timer.C:
				return apperrors.RunTimeout(name, timeout.String())
			}
		}
	}
}

// WithCircuitBreaker fails runs fast while the circuit is open.
func WithCircuitBreaker(cb *CircuitBreaker) RunnerMiddleware {
	return func(next pipeline.Runner) pipeline.Runner {
		return func(req, res any) error {
			err := cb.Execute(func() error {
				return next(req, res)
			})
			if errors.Is(err, ErrCircuitOpen) {
				return apperrors.CircuitOpen(cb.Name())
			}
			return err
		}
	}
}

// WithBulkhead caps the number of concurrent runs.
func WithBulkhead(b *Bulkhead) RunnerMiddleware {
	return func(next pipeline.Runner) pipeline.Runner {
		return func(req, res any) error {
			err := b.Execute(runnerContext(req), func() error {
				return next(req, res)
			})
			if errors.Is(err, ErrBulkheadFull) || errors.Is(err, ErrBulkheadTimeout) {
				return apperrors.TooManyRuns(b.MaxConcurrent())
			}
			return err
		}
	}
}

// WithRateLimit rejects runs above the configured rate.
func WithRateLimit(rl *RateLimiter) RunnerMiddleware {
	return func(next pipeline.Runner) pipeline.Runner {
		return func(req, res any) error {
			err := rl.Execute(func() error {
				return next(req, res)
			})
			if errors.Is(err, ErrRateLimited) {
				return apperrors.TooManyRuns(rl.Burst())
			}
			return err
		}
	}
}

// runnerContext extracts a context from the request when it carries one.
func runnerContext(req any) context.Context {
	switch v := req.(type) {
	case interface{ Context() context.Context }:
		if ctx := v.Context(); ctx != nil {
			return ctx
		}
	case context.Context:
		if v != nil {
			return v
		}
	}
	return context.Background()
}

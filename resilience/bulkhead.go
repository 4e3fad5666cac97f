package resilience

import (
	"context"
	"errors"
	"time"
)

// Bulkhead rejection errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timed out")
)

// BulkheadConfig caps how many runs may be in flight at once.
type BulkheadConfig struct {
	// Name identifies the guarded pipeline in diagnostics.
	Name string
	// MaxConcurrent is the number of runs allowed in flight.
	MaxConcurrent int
	// MaxWait is how long an extra run may wait for a slot to free up.
	// Zero rejects immediately.
	MaxWait time.Duration
}

// Bulkhead caps concurrent runs so one overloaded pipeline cannot starve
// the rest of the process.
type Bulkhead struct {
	config BulkheadConfig
	slots  chan struct{}
}

// NewBulkhead creates a bulkhead. A non-positive MaxConcurrent falls back
// to 10.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		config: config,
		slots:  make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs fn while holding one slot. Runs beyond MaxConcurrent fail
// with ErrBulkheadFull, or ErrBulkheadTimeout when MaxWait elapsed before
// a slot freed up. The slot is released whether or not fn failed.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-b.slots }()
	return fn()
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight returns how many runs currently hold a slot.
func (b *Bulkhead) InFlight() int {
	return len(b.slots)
}

// MaxConcurrent returns the concurrent run cap.
func (b *Bulkhead) MaxConcurrent() int {
	return b.config.MaxConcurrent
}

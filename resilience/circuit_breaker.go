package resilience

import (
	"errors"
	"sync"
	"time"
)

// State is the circuit breaker's admission state.
type State int

const (
	// StateClosed admits every run.
	StateClosed State = iota
	// StateOpen rejects every run until the cooldown elapses.
	StateOpen
	// StateHalfOpen admits a limited number of trial runs to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen reports a run rejected while the circuit is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig shapes when runs are cut off.
type CircuitBreakerConfig struct {
	// Name identifies the guarded pipeline in diagnostics.
	Name string
	// MaxFailures is how many consecutive run failures open the circuit.
	MaxFailures int
	// Timeout is the open-state cooldown before trial runs are admitted.
	Timeout time.Duration
	// HalfOpenMaxCalls caps the trial runs admitted while half-open.
	HalfOpenMaxCalls int
	// OnStateChange observes every state transition.
	OnStateChange func(name string, from, to State)
}

// CircuitBreaker cuts off runs against a failing dependency. Consecutive
// run failures open the circuit; after a cooldown, trial runs decide
// whether it closes again.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.RWMutex
	state       State
	failures    int
	trialWins   int
	trialsSent  int
	lastFailure time.Time
}

// NewCircuitBreaker creates a circuit breaker. Non-positive config values
// fall back to 5 failures, a 30s cooldown, and a single trial run.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = 1
	}
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute starts fn when the circuit admits it, recording the outcome.
// Returns ErrCircuitOpen without starting fn while the circuit is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.admit() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.record(err)
	return err
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// State returns the current admission state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// Reset forces the circuit closed and clears all counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transition(StateClosed)
	cb.failures = 0
}

// Failures returns the consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}

// admit decides whether a run may start now.
func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.trialsSent < cb.config.HalfOpenMaxCalls {
			cb.trialsSent++
			return true
		}
	}
	return false
}

// record folds a run outcome into the state machine.
func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.currentState()

	if err == nil {
		switch state {
		case StateClosed:
			cb.failures = 0
		case StateHalfOpen:
			cb.trialWins++
			if cb.trialWins >= cb.config.HalfOpenMaxCalls {
				cb.transition(StateClosed)
			}
		}
		return
	}

	cb.failures++
	cb.lastFailure = time.Now()

	switch state {
	case StateClosed:
		if cb.failures >= cb.config.MaxFailures {
			cb.transition(StateOpen)
		}
	case StateHalfOpen:
		// A failed trial reopens the circuit for another cooldown.
		cb.transition(StateOpen)
	}
}

// currentState applies the cooldown transition. Callers must hold the
// mutex for writing.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.config.Timeout {
		cb.transition(StateHalfOpen)
	}
	return cb.state
}

// transition moves to a new state and resets the trial counters.
func (cb *CircuitBreaker) transition(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to
	cb.trialsSent = 0
	cb.trialWins = 0
	if to == StateClosed {
		cb.failures = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

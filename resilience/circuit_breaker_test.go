package resilience

import (
	"fmt"
	"testing"
	"time"
)

func failingRun(err error) func() error {
	return func() error { return err }
}

func okRun() error { return nil }

func TestCircuitBreaker_StaysClosedWhileRunsSucceed(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "checkout", MaxFailures: 2})

	for i := 0; i < 5; i++ {
		if err := cb.Execute(okRun); err != nil {
			t.Fatalf("run %d = %v, want nil", i, err)
		}
	}
	if got := cb.State(); got != StateClosed {
		t.Errorf("state = %v, want closed", got)
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "checkout",
		MaxFailures: 3,
		Timeout:     time.Minute,
	})

	boom := fmt.Errorf("downstream down")
	for i := 0; i < 3; i++ {
		if err := cb.Execute(failingRun(boom)); err != boom {
			t.Fatalf("run %d = %v, want the run failure", i, err)
		}
	}

	if got := cb.State(); got != StateOpen {
		t.Fatalf("state = %v, want open", got)
	}
	if err := cb.Execute(okRun); err != ErrCircuitOpen {
		t.Errorf("run with open circuit = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreaker_SuccessClearsFailureStreak(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "checkout", MaxFailures: 3})

	boom := fmt.Errorf("flaky")
	cb.Execute(failingRun(boom))
	cb.Execute(failingRun(boom))
	cb.Execute(okRun)

	if got := cb.Failures(); got != 0 {
		t.Errorf("failures after success = %d, want 0", got)
	}
	if got := cb.State(); got != StateClosed {
		t.Errorf("state = %v, want closed", got)
	}
}

func TestCircuitBreaker_TrialRunClosesCircuit(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "checkout",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	})

	cb.Execute(failingRun(fmt.Errorf("down")))
	if got := cb.State(); got != StateOpen {
		t.Fatalf("state = %v, want open", got)
	}

	time.Sleep(20 * time.Millisecond)
	if got := cb.State(); got != StateHalfOpen {
		t.Fatalf("state after cooldown = %v, want half-open", got)
	}

	if err := cb.Execute(okRun); err != nil {
		t.Fatalf("trial run = %v, want nil", err)
	}
	if got := cb.State(); got != StateClosed {
		t.Errorf("state after successful trial = %v, want closed", got)
	}
}

func TestCircuitBreaker_FailedTrialReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "checkout",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	})

	cb.Execute(failingRun(fmt.Errorf("down")))
	time.Sleep(20 * time.Millisecond)

	boom := fmt.Errorf("still down")
	if err := cb.Execute(failingRun(boom)); err != boom {
		t.Fatalf("trial run = %v, want the run failure", err)
	}
	if got := cb.State(); got != StateOpen {
		t.Errorf("state after failed trial = %v, want open", got)
	}
}

func TestCircuitBreaker_HalfOpenCapsTrialRuns(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "checkout",
		MaxFailures:      1,
		Timeout:          10 * time.Millisecond,
		HalfOpenMaxCalls: 1,
	})

	cb.Execute(failingRun(fmt.Errorf("down")))
	time.Sleep(20 * time.Millisecond)

	block := make(chan struct{})
	started := make(chan struct{})
	go cb.Execute(func() error {
		close(started)
		<-block
		return nil
	})
	<-started

	// The single admitted trial is still in flight.
	if err := cb.Execute(okRun); err != ErrCircuitOpen {
		t.Errorf("second run while trial in flight = %v, want ErrCircuitOpen", err)
	}
	close(block)
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "checkout", MaxFailures: 1})

	cb.Execute(failingRun(fmt.Errorf("down")))
	if got := cb.State(); got != StateOpen {
		t.Fatalf("state = %v, want open before reset", got)
	}

	cb.Reset()
	if got := cb.State(); got != StateClosed {
		t.Errorf("state after reset = %v, want closed", got)
	}
	if got := cb.Failures(); got != 0 {
		t.Errorf("failures after reset = %d, want 0", got)
	}
	if err := cb.Execute(okRun); err != nil {
		t.Errorf("run after reset = %v, want nil", err)
	}
}

func TestCircuitBreaker_ReportsTransitions(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "checkout",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, fmt.Sprintf("%s:%v->%v", name, from, to))
		},
	})

	cb.Execute(failingRun(fmt.Errorf("down")))
	time.Sleep(20 * time.Millisecond)
	cb.Execute(okRun)

	want := []string{
		"checkout:closed->open",
		"checkout:open->half-open",
		"checkout:half-open->closed",
	}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %q, want %q", i, transitions[i], want[i])
		}
	}
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "checkout"})

	boom := fmt.Errorf("down")
	for i := 0; i < 4; i++ {
		cb.Execute(failingRun(boom))
	}
	if got := cb.State(); got != StateClosed {
		t.Errorf("state after 4 failures = %v, want closed under the default cap of 5", got)
	}
	cb.Execute(failingRun(boom))
	if got := cb.State(); got != StateOpen {
		t.Errorf("state after 5 failures = %v, want open", got)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

package resilience

import (
	"fmt"
	"testing"
	"time"
)

func TestRateLimiter_AllowsBurstOfRuns(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "checkout", Rate: 10.0, Burst: 5})

	for i := 0; i < 5; i++ {
		if !rl.Allow() {
			t.Errorf("run %d rejected within the burst", i)
		}
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "checkout", Rate: 1.0, Burst: 2})

	rl.Allow()
	rl.Allow()
	if rl.Allow() {
		t.Error("run beyond the burst was allowed")
	}
}

func TestRateLimiter_ExecuteFailsWhenRateExceeded(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "checkout", Rate: 1.0, Burst: 1})

	ran := 0
	run := func() error {
		ran++
		return nil
	}

	if err := rl.Execute(run); err != nil {
		t.Fatalf("first run = %v, want nil", err)
	}
	if err := rl.Execute(run); err != ErrRateLimited {
		t.Errorf("second run = %v, want ErrRateLimited", err)
	}
	if ran != 1 {
		t.Errorf("runs started = %d, want 1", ran)
	}
}

func TestRateLimiter_ExecutePassesThroughFailure(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "checkout", Rate: 10.0, Burst: 5})

	boom := fmt.Errorf("run failed")
	if err := rl.Execute(func() error { return boom }); err != boom {
		t.Errorf("Execute() = %v, want the run failure", err)
	}
}

func TestRateLimiter_TokensRefillOverTime(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "checkout", Rate: 100.0, Burst: 1})

	if !rl.Allow() {
		t.Fatal("first run rejected")
	}
	if rl.Allow() {
		t.Fatal("second run allowed before any refill")
	}

	time.Sleep(20 * time.Millisecond)
	if !rl.Allow() {
		t.Error("run rejected after refill interval")
	}
}

func TestRateLimiter_TokensCapAtBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "checkout", Rate: 1000.0, Burst: 3})

	time.Sleep(20 * time.Millisecond)
	if got := rl.Tokens(); got > 3 {
		t.Errorf("Tokens() = %v, want capped at the burst of 3", got)
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "checkout"})

	if got := rl.Rate(); got != 10.0 {
		t.Errorf("Rate() = %v, want the default of 10", got)
	}
	if got := rl.Burst(); got != 10 {
		t.Errorf("Burst() = %v, want the rate-sized default", got)
	}
}

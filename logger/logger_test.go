package logger

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	cfg := &Config{Level: "invalid-level", Format: "json", Output: "stdout"}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewWriter_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "svc")
	l.Info("run settled", Fields(FieldRunID, "abc", FieldStage, 2))

	out := buf.String()
	for _, want := range []string{`"run_id":"abc"`, `"stage":2`, `"service":"svc"`, "run settled"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestWithRun(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "").WithRun("api", "run-1")
	l.Debug("stage enter")

	out := buf.String()
	if !strings.Contains(out, `"pipeline":"api"`) || !strings.Contains(out, `"run_id":"run-1"`) {
		t.Errorf("log output %q missing run fields", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, "").WithComponent("engine").Info("hi")
	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("log output %q missing component field", buf.String())
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, "").WithError(errors.New("boom")).Error("failed")
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("log output %q missing error", buf.String())
	}
}

func TestNop_Discards(t *testing.T) {
	// Must not panic or write anywhere.
	l := Nop()
	l.Info("ignored")
	l.Error("ignored", Fields("k", "v"))
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two")
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("Fields() = %v", m)
	}

	// Odd trailing key is dropped.
	m = Fields("a", 1, "dangling")
	if len(m) != 1 {
		t.Errorf("Fields() with dangling key = %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("run", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("duration_ms = %v, want 1500", m[FieldDuration])
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	bad := &Config{Level: "loud", Format: "json", Output: "stdout"}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	e := InvalidStage(2, "not a function")
	got := e.Error()
	if !strings.Contains(got, string(ErrCodeInvalidStage)) {
		t.Errorf("Error() = %q, want code %q included", got, ErrCodeInvalidStage)
	}
	if !strings.Contains(got, "position 2") {
		t.Errorf("Error() = %q, want position included", got)
	}
}

func TestAppError_ErrorWithCause(t *testing.T) {
	cause := stderrors.New("db down")
	e := Internal(cause)
	if !strings.Contains(e.Error(), "db down") {
		t.Errorf("Error() = %q, want cause included", e.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("root")
	e := Internal(cause)
	if !stderrors.Is(e, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	e := Validation("bad").WithDetail("field", "name")
	if e.Details["field"] != "name" {
		t.Errorf("Details[field] = %v, want name", e.Details["field"])
	}
}

func TestRetryableDetection(t *testing.T) {
	tests := []struct {
		err  *AppError
		want bool
	}{
		{InvalidStage(0, "x"), false},
		{LabelNotAvailable("auth"), false},
		{ContinuationReused(1), false},
		{RunTimeout("api", "1s"), true},
		{CircuitOpen("api"), true},
		{TooManyRuns(8), true},
		{Unauthorized(""), false},
	}
	for _, tt := range tests {
		if tt.err.Retryable != tt.want {
			t.Errorf("%s: Retryable = %v, want %v", tt.err.Code, tt.err.Retryable, tt.want)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Unauthorized(""), http.StatusUnauthorized},
		{RunTimeout("api", "1s"), http.StatusGatewayTimeout},
		{CircuitOpen("api"), http.StatusServiceUnavailable},
		{TooManyRuns(8), http.StatusTooManyRequests},
		{NotFound("pipeline"), http.StatusNotFound},
		{Validation("bad"), http.StatusBadRequest},
		{RunPanic("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if tt.err.HTTPStatus != tt.want {
			t.Errorf("%s: HTTPStatus = %d, want %d", tt.err.Code, tt.err.HTTPStatus, tt.want)
		}
	}
}

func TestToResponse(t *testing.T) {
	e := LabelNotAvailable("auth")
	resp := e.ToResponse()
	if resp.Error.Code != ErrCodeLabelNotAvailable {
		t.Errorf("response code = %s, want %s", resp.Error.Code, ErrCodeLabelNotAvailable)
	}
	if resp.Error.Details["label"] != "auth" {
		t.Errorf("response details = %v, want label=auth", resp.Error.Details)
	}
}

func TestRender(t *testing.T) {
	status, resp := Render(Unauthorized("Missing token."))
	if status != 401 {
		t.Errorf("status = %d, want 401", status)
	}
	if resp.Error.Code != ErrCodeUnauthorized {
		t.Errorf("code = %s, want %s", resp.Error.Code, ErrCodeUnauthorized)
	}

	status, resp = Render(stderrors.New("plain"))
	if status != 500 {
		t.Errorf("status for plain error = %d, want 500", status)
	}
	if resp.Error.Code != ErrCodeInternal {
		t.Errorf("code for plain error = %s, want %s", resp.Error.Code, ErrCodeInternal)
	}
}

func TestAsAppError(t *testing.T) {
	base := InvalidStage(1, "nil")
	wrapped := fmt.Errorf("compose: %w", base)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("AsAppError failed to unwrap")
	}
	if appErr.Code != ErrCodeInvalidStage {
		t.Errorf("code = %s, want %s", appErr.Code, ErrCodeInvalidStage)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("AsAppError matched a plain error")
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("run: %w", ContinuationReused(0))
	if !IsCode(err, ErrCodeContinuationReused) {
		t.Error("IsCode should match through wrapping")
	}
	if IsCode(err, ErrCodeRunTimeout) {
		t.Error("IsCode matched wrong code")
	}
}

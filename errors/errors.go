package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Composition Errors ---

// InvalidStage creates a new AppError for a value that fails the stage
// contract at composition time. Position is zero-based within the
// flattened input.
func InvalidStage(position int, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidStage, Message: fmt.Sprintf("Invalid stage at position %d: %s", position, reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"position": position, "reason": reason},
	}
}

// InvalidStageValue creates a new AppError for a value that fails the
// stage contract, without a known pipeline position.
func InvalidStageValue(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidStage, Message: fmt.Sprintf("Invalid stage: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"reason": reason},
	}
}

// LabelNotAvailable creates a new AppError for an unknown registry label.
func LabelNotAvailable(label string) *AppError {
	return &AppError{
		Code: ErrCodeLabelNotAvailable, Message: fmt.Sprintf("No stage or group is registered under label %q.", label),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"label": label},
	}
}

// PipelineNotFound creates a new AppError for a missing pipeline definition.
func PipelineNotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodePipelineNotFound, Message: fmt.Sprintf("Pipeline %q was not found.", name),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"pipeline": name},
	}
}

// InvalidDefinition creates a new AppError for a malformed pipeline definition.
func InvalidDefinition(name, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidDefinition, Message: fmt.Sprintf("Pipeline definition %q is invalid: %s", name, reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"pipeline": name, "reason": reason},
	}
}

// --- Run Errors ---

// ContinuationReused creates a new AppError for a continuation invoked more
// than once within a single run.
func ContinuationReused(stage int) *AppError {
	return &AppError{
		Code: ErrCodeContinuationReused, Message: fmt.Sprintf("Stage %d invoked its continuation more than once.", stage),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"stage": stage},
	}
}

// RunSettled creates a new AppError for a continuation invoked after the
// run already settled.
func RunSettled(stage int) *AppError {
	return &AppError{
		Code: ErrCodeRunSettled, Message: fmt.Sprintf("Stage %d invoked its continuation after the run settled.", stage),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"stage": stage},
	}
}

// RunPanic creates a new AppError wrapping a recovered panic value.
func RunPanic(value any) *AppError {
	return &AppError{
		Code: ErrCodeRunPanic, Message: "A pipeline stage or handler panicked.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"panic": fmt.Sprintf("%v", value)},
	}
}

// --- Resilience Errors ---

// RunTimeout creates a new AppError for a run that exceeded a caller deadline.
func RunTimeout(pipeline string, timeout string) *AppError {
	return &AppError{
		Code: ErrCodeRunTimeout, Message: "The pipeline run took too long.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"pipeline": pipeline, "timeout": timeout},
	}
}

// CircuitOpen creates a new AppError for a run rejected by an open circuit.
func CircuitOpen(name string) *AppError {
	return &AppError{
		Code: ErrCodeCircuitOpen, Message: "Too many recent failures. Please try again later.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"circuit": name},
	}
}

// TooManyRuns creates a new AppError for a run rejected by the bulkhead.
func TooManyRuns(limit int) *AppError {
	return &AppError{
		Code: ErrCodeTooManyRuns, Message: "Too many concurrent pipeline runs. Please try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"limit": limit},
	}
}

// --- Request Errors ---

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

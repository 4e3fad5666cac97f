package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Composition errors, raised while a pipeline is assembled, before any
// request is processed. Never retryable.
const (
	// ErrCodeInvalidStage indicates a value failed the stage contract.
	ErrCodeInvalidStage ErrorCode = "INVALID_STAGE"
	// ErrCodeLabelNotAvailable indicates an unknown registry label.
	ErrCodeLabelNotAvailable ErrorCode = "LABEL_NOT_AVAILABLE"
	// ErrCodePipelineNotFound indicates a pipeline definition was not found.
	ErrCodePipelineNotFound ErrorCode = "PIPELINE_NOT_FOUND"
	// ErrCodeInvalidDefinition indicates a malformed pipeline definition.
	ErrCodeInvalidDefinition ErrorCode = "INVALID_DEFINITION"
)

// Run errors, produced while a pipeline run is executing.
const (
	// ErrCodeContinuationReused indicates a stage invoked its continuation
	// more than once within a single run.
	ErrCodeContinuationReused ErrorCode = "CONTINUATION_REUSED"
	// ErrCodeRunSettled indicates a continuation was invoked after its run
	// already settled.
	ErrCodeRunSettled ErrorCode = "RUN_SETTLED"
	// ErrCodeRunPanic indicates a stage or handler panicked during a run.
	ErrCodeRunPanic ErrorCode = "RUN_PANIC"
)

// Resilience errors
const (
	// ErrCodeRunTimeout indicates a run exceeded a caller-imposed deadline.
	ErrCodeRunTimeout ErrorCode = "RUN_TIMEOUT"
	// ErrCodeCircuitOpen indicates the circuit breaker rejected the run.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
	// ErrCodeTooManyRuns indicates the concurrent run limit was reached.
	ErrCodeTooManyRuns ErrorCode = "TOO_MANY_RUNS"
)

// Request errors
const (
	// ErrCodeUnauthorized indicates missing or failed authentication.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// retryableCodes lists codes that may succeed on a later attempt.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeRunTimeout:  true,
	ErrCodeCircuitOpen: true,
	ErrCodeTooManyRuns: true,
}

// IsRetryableCode returns true if the error code is retryable.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

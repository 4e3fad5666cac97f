package pipeline

import (
	"time"

	"github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/future"
	"github.com/kbukum/onionkit/observability"
)

// WithMetrics returns an awaiting-style stage that records the remainder's
// duration and outcome on the given metrics instruments.
func WithMetrics(pipeline, stage string, metrics *observability.Metrics) Stage {
	return func(req, res any, next Next) *future.Future {
		ctx := requestContext(req)
		start := time.Now()
		err := next(nil).Await()
		duration := time.Since(start)

		status := "ok"
		if err != nil {
			status = "error"
			code := string(errors.ErrCodeInternal)
			if appErr, ok := errors.AsAppError(err); ok {
				code = string(appErr.Code)
			}
			metrics.RecordError(ctx, code, pipeline)
		}
		metrics.RecordStage(ctx, pipeline, stage, status, duration)

		if err != nil {
			return future.Rejected(err)
		}
		return future.Resolved()
	}
}

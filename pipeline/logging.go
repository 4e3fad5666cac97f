package pipeline

import (
	"time"

	"github.com/kbukum/onionkit/future"
	"github.com/kbukum/onionkit/logger"
)

// WithLogging returns an awaiting-style stage that logs the remainder's
// duration and outcome under the given stage name.
func WithLogging(name string, log *logger.Logger) Stage {
	return func(req, res any, next Next) *future.Future {
		start := time.Now()
		err := next(nil).Await()
		duration := time.Since(start)

		fields := logger.Fields(
			logger.FieldStage, name,
			logger.FieldDuration, duration.String(),
		)

		if err != nil {
			log.Error("stage failed", logger.MergeWithError(fields, err))
			return future.Rejected(err)
		}
		log.Debug("stage ok", fields)
		return future.Resolved()
	}
}

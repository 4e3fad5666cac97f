package pipeline

import (
	"github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/future"
	"github.com/kbukum/onionkit/logger"
)

// Recovery returns an awaiting-style stage that converts a panic anywhere
// in the remainder into a RUN_PANIC failure instead of crashing the caller.
// Place it first so the whole chain is covered.
func Recovery(log *logger.Logger) Stage {
	return func(req, res any, next Next) (out *future.Future) {
		defer func() {
			if r := recover(); r != nil {
				if log != nil {
					log.Error("run panicked", logger.Fields("panic", r))
				}
				out = future.Rejected(errors.RunPanic(r))
			}
		}()

		if err := next(nil).Await(); err != nil {
			return future.Rejected(err)
		}
		return future.Resolved()
	}
}

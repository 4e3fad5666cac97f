package pipeline

import (
	"github.com/google/uuid"

	"github.com/kbukum/onionkit/observability"
)

// Observe wraps a Runner so every run is traced and measured as one unit:
// a run span with pipeline and run id attributes, plus in-flight, duration,
// and outcome metrics. A nil metrics bundle records the span only.
func Observe(name string, metrics *observability.Metrics) func(Runner) Runner {
	return func(run Runner) Runner {
		return func(req, res any) error {
			rc := observability.NewRunContext(name, uuid.NewString(), metrics)
			ctx, span := rc.StartRunSpan(requestContext(req))

			err := run(req, res)

			status := "ok"
			if err != nil {
				status = "error"
			}
			rc.EndRun(ctx, span, status, err)
			return err
		}
	}
}

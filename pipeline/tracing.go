package pipeline

import (
	"github.com/kbukum/onionkit/future"
	"github.com/kbukum/onionkit/observability"
)

// WithTracing returns an awaiting-style stage that wraps the remainder in
// an OpenTelemetry span named "pipeline.stage". The request's context is
// used when it carries one.
func WithTracing(name string) Stage {
	return func(req, res any, next Next) *future.Future {
		ctx, span := observability.StartSpan(requestContext(req), observability.SpanStage)
		defer span.End()

		observability.SetSpanAttribute(ctx, observability.AttrStageName, name)

		if err := next(nil).Await(); err != nil {
			observability.SetSpanError(ctx, err)
			observability.SetSpanAttribute(ctx, observability.AttrStatus, "error")
			return future.Rejected(err)
		}
		observability.SetSpanAttribute(ctx, observability.AttrStatus, "ok")
		return future.Resolved()
	}
}

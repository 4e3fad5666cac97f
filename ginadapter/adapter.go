package ginadapter

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/pipeline"
)

// Request is the request context handed to every stage of a wrapped run.
type Request struct {
	Gin *gin.Context
}

// Context returns the underlying HTTP request context so tracing stages
// can propagate it.
func (r *Request) Context() context.Context {
	if r.Gin == nil || r.Gin.Request == nil {
		return context.Background()
	}
	return r.Gin.Request.Context()
}

// Response collects what the run wants to send back. A stage or handler
// fills Status and Body; Wrap renders them after the run resolves.
type Response struct {
	Status int
	Body   any
}

// Wrap adapts a pipeline runner into a Gin handler. A rejected run is
// rendered as JSON using the AppError's HTTP status; unknown errors map
// to 500 INTERNAL_ERROR.
func Wrap(run pipeline.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &Request{Gin: c}
		res := &Response{}

		if err := run(req, res); err != nil {
			c.JSON(errors.Render(err))
			return
		}

		if c.Writer.Written() {
			return
		}
		status := res.Status
		if status == 0 {
			status = http.StatusOK
		}
		if res.Body != nil {
			c.JSON(status, res.Body)
			return
		}
		c.Status(status)
	}
}

// ginRequest extracts the adapter request from a stage's request context.
func ginRequest(req any) (*Request, bool) {
	r, ok := req.(*Request)
	return r, ok && r.Gin != nil
}

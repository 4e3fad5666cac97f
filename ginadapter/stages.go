package ginadapter

import (
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/future"
	"github.com/kbukum/onionkit/logger"
	"github.com/kbukum/onionkit/pipeline"
)

// RequestIDHeader is the header carrying the request correlation ID.
const RequestIDHeader = "X-Request-Id"

// requestIDKey is the Gin context key holding the request ID.
const requestIDKey = "request_id"

// RequestID returns a callback-style stage that assigns a correlation ID
// to the request. An incoming X-Request-Id header is honored; otherwise a
// new UUID is generated. The ID is echoed on the response.
func RequestID() pipeline.Stage {
	return func(req, res any, next pipeline.Next) *future.Future {
		if r, ok := ginRequest(req); ok {
			id := r.Gin.GetHeader(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			r.Gin.Set(requestIDKey, id)
			r.Gin.Header(RequestIDHeader, id)
		}
		next(nil)
		return nil
	}
}

// RequestIDFromContext returns the correlation ID set by RequestID, or "".
func RequestIDFromContext(r *Request) string {
	if r == nil || r.Gin == nil {
		return ""
	}
	return r.Gin.GetString(requestIDKey)
}

// AccessLog returns an awaiting-style stage that logs each request with
// method, path, status, and duration once the remainder finishes.
func AccessLog(log *logger.Logger) pipeline.Stage {
	return func(req, res any, next pipeline.Next) *future.Future {
		r, ok := ginRequest(req)
		if !ok {
			return next(nil)
		}

		start := time.Now()
		err := next(nil).Await()
		latency := time.Since(start)

		path := r.Gin.Request.URL.Path
		if q := r.Gin.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		fields := map[string]interface{}{
			"method":  r.Gin.Request.Method,
			"path":    path,
			"latency": latency.String(),
			"client":  r.Gin.ClientIP(),
		}
		if id := RequestIDFromContext(r); id != "" {
			fields[logger.FieldRequestID] = id
		}
		if out, isRes := res.(*Response); isRes && out.Status != 0 {
			fields["status"] = out.Status
		}

		if err != nil {
			log.Error("Request failed", logger.MergeWithError(fields, err))
			return future.Rejected(err)
		}
		log.Debug("Request completed", fields)
		return future.Resolved()
	}
}

// AuthConfig configures the JWT authentication stage.
type AuthConfig struct {
	// Secret is the HMAC key used to verify tokens. Ignored when
	// TokenValidator is set.
	Secret []byte
	// TokenValidator validates a token string and returns the claims.
	// Defaults to HMAC verification with Secret.
	TokenValidator func(token string) (map[string]interface{}, error)
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth returns an awaiting-style stage that validates Bearer tokens.
// A missing or invalid token short-circuits the run: the 401 response is
// written and the remainder never executes, yet the run itself resolves.
// Validated claims are stored in the Gin context.
func Auth(cfg AuthConfig) pipeline.Stage {
	validate := cfg.TokenValidator
	if validate == nil {
		validate = hmacValidator(cfg.Secret)
	}

	return func(req, res any, next pipeline.Next) *future.Future {
		r, ok := ginRequest(req)
		if !ok {
			return next(nil)
		}

		path := r.Gin.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				return next(nil)
			}
		}

		authHeader := r.Gin.GetHeader("Authorization")
		if authHeader == "" {
			return reject(r, res, errors.Unauthorized("Authorization header required."))
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return reject(r, res, errors.Unauthorized("Invalid authorization header format."))
		}

		claims, err := validate(parts[1])
		if err != nil {
			return reject(r, res, errors.Unauthorized("Invalid token."))
		}

		for key, value := range claims {
			r.Gin.Set(key, value)
		}
		return next(nil)
	}
}

// reject writes the auth failure and resolves without resuming the chain.
func reject(r *Request, res any, appErr *errors.AppError) *future.Future {
	if out, ok := res.(*Response); ok {
		out.Status, out.Body = errors.Render(appErr)
	} else {
		r.Gin.AbortWithStatusJSON(errors.Render(appErr))
	}
	return future.Resolved()
}

// hmacValidator verifies HMAC-signed tokens and returns their map claims.
func hmacValidator(secret []byte) func(string) (map[string]interface{}, error) {
	return func(token string) (map[string]interface{}, error) {
		claims := gojwt.MapClaims{}
		parsed, err := gojwt.ParseWithClaims(token, claims, func(t *gojwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
				return nil, errors.Unauthorized("Unexpected signing method.")
			}
			return secret, nil
		})
		if err != nil {
			return nil, err
		}
		if !parsed.Valid {
			return nil, errors.Unauthorized("Invalid token.")
		}
		return claims, nil
	}
}

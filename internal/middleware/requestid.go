package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = echo.HeaderXRequestID

// requestIDKey is the echo.Context key and context.Context key of the ID.
const requestIDKey = "request_id"

type ctxKey struct{}

// RequestID returns middleware that tags every request with an ID. An
// incoming X-Request-ID is kept; otherwise a random UUID is generated. The
// ID is echoed in the response header and stored on both the echo context
// and the request's context.Context.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			c.Set(requestIDKey, id)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), ctxKey{}, id)))
			c.Response().Header().Set(RequestIDHeader, id)

			return next(c)
		}
	}
}

// GetRequestID returns the ID assigned by RequestID, or "".
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

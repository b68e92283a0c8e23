package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestTimeout sets a deadline on each request context. The handler runs on
// the request goroutine and is expected to honour the context (pgx queries
// do); once the deadline has passed, any error it returns becomes a 504
// Gateway Timeout. A non-positive timeout disables the middleware.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Timeout:      timeout,
		ErrorHandler: timeoutError,
	})
}

// timeoutError maps a handler error to 504 when the request deadline caused
// it. Other errors pass through unchanged.
func timeoutError(err error, c echo.Context) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(c.Request().Context().Err(), context.DeadlineExceeded) {
		return err
	}
	// A handler that already wrote its response keeps it.
	if c.Response().Committed {
		return nil
	}
	return echo.NewHTTPError(http.StatusGatewayTimeout,
		"request processing exceeded the allowed time limit").SetInternal(err)
}

// Package middleware contains reusable HTTP middleware functions.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-group-scheduler/internal/metrics"
)

// Metrics returns an Echo middleware that records request counts and
// latency per route. The registered route pattern (not the raw URL) is
// used as the label to keep cardinality bounded.
func Metrics(c *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err)
			}
			c.RecordRequest(
				ctx.Path(),
				ctx.Request().Method,
				strconv.Itoa(ctx.Response().Status),
				time.Since(start),
			)
			return err
		}
	}
}

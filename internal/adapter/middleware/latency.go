package middleware

import (
	"strconv"
	"time"

	"credit-approval/internal/infrastructure/metrics"

	"github.com/labstack/echo/v4"
)

// Latency records request duration per method, route template and status.
func Latency(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveEndpointLatency(c.Request().Method, route, strconv.Itoa(c.Response().Status), time.Since(start).Seconds())
			return nil
		}
	}
}

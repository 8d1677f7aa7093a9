// Package middleware provides Echo middleware for storeiq.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lmoretti/storeiq/internal/metrics"
)

// Operational endpoints stay out of the request histogram; the two probes
// instead drive 0/1 gauges.
var (
	metricsSkipPaths = map[string]struct{}{
		"/metrics": {},
		"/healthz": {},
		"/readyz":  {},
	}

	healthGauges = map[string]prometheus.Gauge{
		"/healthz": metrics.HealthzUp,
		"/readyz":  metrics.ReadyzUp,
	}
)

// Metrics records per-route request duration and status counts.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// c.Path is the route pattern; fall back to the raw URL for
			// requests that matched no route.
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if _, skip := metricsSkipPaths[path]; skip {
				err := next(c)
				setHealthGauge(path, c.Response().Status)
				return err
			}

			start := time.Now()
			err := next(c)

			labels := []string{
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}

func setHealthGauge(path string, status int) {
	gauge, ok := healthGauges[path]
	if !ok {
		return
	}
	if status >= 200 && status < 300 {
		gauge.Set(1)
	} else {
		gauge.Set(0)
	}
}

package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// slowRequestThreshold marks requests that overran what an interactive call
// should take. Simulation and seed runs write thousands of rows, so they
// are the expected offenders; anything else logged as slow is a problem
// worth chasing.
const slowRequestThreshold = 5 * time.Second

// Logger emits one structured log line per request. Failed requests log at
// error level, slow ones at warn.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			latency := time.Since(start)
			res := c.Response()

			evt := logger.Info()
			switch {
			case err != nil:
				evt = logger.Error().Err(err)
			case latency > slowRequestThreshold:
				evt = logger.Warn().Bool("slow", true)
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("route", c.Path()).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("latency", latency).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}

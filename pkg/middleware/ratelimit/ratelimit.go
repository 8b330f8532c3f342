// Package ratelimitmw wires the shared fixed-window limiters into echo. Both
// the gateway and the services mount these, all against the same counter
// store, so quotas hold across instances.
package ratelimitmw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/pkg/ratelimit"
)

// Skipper reports whether a request bypasses the policy.
type Skipper func(echo.Context) bool

// SkipReads exempts GET/HEAD requests; used for write-only window policies.
func SkipReads(c echo.Context) bool {
	m := c.Request().Method
	return m == http.MethodGet || m == http.MethodHead
}

// Burst applies a per-IP policy to every request. It runs before anything
// heavier so abusive traffic is turned away at minimal cost.
func Burst(l *ratelimit.Limiter) echo.MiddlewareFunc {
	return limit(l, func(c echo.Context) string { return c.RealIP() }, nil)
}

// Window applies a heavier per-route, per-IP policy to sensitive routes.
// Keys use the registered route pattern, not the concrete path, so rotating
// resource ids cannot mint fresh buckets. The key namespace is disjoint from
// the burst policy's.
func Window(l *ratelimit.Limiter, skipper Skipper) echo.MiddlewareFunc {
	return limit(l, func(c echo.Context) string { return c.Path() + ":" + c.RealIP() }, skipper)
}

func limit(l *ratelimit.Limiter, key func(echo.Context) string, skipper Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			ok, err := l.Allow(c.Request().Context(), key(c))
			if err != nil {
				// Store outage degrades to failing this request, not the process.
				logging.FromContext(c.Request().Context()).Error("rate limit store unavailable", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			if !ok {
				logging.FromContext(c.Request().Context()).Warn("rate limit exceeded", "ip", c.RealIP(), "path", c.Request().URL.Path)
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}

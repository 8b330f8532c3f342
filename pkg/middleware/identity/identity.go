// Package identity enforces the gateway trust boundary on downstream services.
// The gateway is the only component that verifies credentials; it forwards the
// authenticated caller as the x-user-id header. A service reached without that
// header (for example directly, bypassing the gateway) treats the request as
// unauthenticated. Services must never be exposed on a network path that skips
// the gateway in production.
package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	Header    = "x-user-id"
	CtxUserID = "user_id"
)

func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(Header)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized - please login or register to continue")
			}
			c.Set(CtxUserID, userID)
			return next(c)
		}
	}
}

// UserID returns the trusted caller id set by Middleware.
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}

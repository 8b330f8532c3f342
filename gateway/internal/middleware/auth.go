package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/pkg/tokens"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxEmail    = "email"
)

// Auth is the gateway's authentication gate. The credential comes from the
// accessToken cookie or, failing that, an Authorization bearer header. Public
// route groups (auth) are registered without it.
func Auth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := credentialFrom(c)
			if token == "" {
				logging.FromContext(c.Request().Context()).Warn("request without credential")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized - no token")
			}

			claims, err := tokens.AccessClaimsFromToken(token, secret)
			if err != nil || claims == nil || claims.Subject == "" {
				logging.FromContext(c.Request().Context()).Warn("invalid credential", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxEmail, claims.Email)

			return next(c)
		}
	}
}

func credentialFrom(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return ""
}

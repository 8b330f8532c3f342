package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/pkg/respond"
	"github.com/mkravets/socialnet/services/user/internal/service"
	"github.com/mkravets/socialnet/services/user/internal/transport"
)

type AuthHTTP struct {
	Svc *service.UserService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad register body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		default:
			return err
		}
	}

	setAuthCookies(c, res)
	return respond.OK(c, http.StatusCreated, "registered", transport.AuthResponse{
		UserID:   res.UserID.String(),
		Username: res.Username,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad login body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		default:
			return err
		}
	}

	setAuthCookies(c, res)
	return respond.OK(c, http.StatusOK, "logged in", transport.AuthResponse{
		UserID:   res.UserID.String(),
		Username: res.Username,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.Svc.Refresh(ctx, cookieValue(c, "refreshToken"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		return err
	}

	setAuthCookies(c, res)
	return respond.OK(c, http.StatusOK, "refreshed", transport.AuthResponse{
		UserID:   res.UserID.String(),
		Username: res.Username,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if err := h.Svc.Logout(ctx, cookieValue(c, "refreshToken")); err != nil {
		// Cookies are cleared regardless so the client ends up signed out.
		l.Error("logout failed", "error", err)
	}

	clearAuthCookies(c)
	return respond.OK(c, http.StatusOK, "logged out", nil)
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setAuthCookies(c echo.Context, res *service.AuthResult) {
	c.SetCookie(newCookie("accessToken", res.AccessToken, res.AccessExp))
	c.SetCookie(newCookie("refreshToken", res.RefreshToken, res.RefreshExp))
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(newCookie("accessToken", "", time.Unix(0, 0)))
	c.SetCookie(newCookie("refreshToken", "", time.Unix(0, 0)))
}

func newCookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/gateway/internal/middleware"
	"github.com/mkravets/socialnet/gateway/internal/obs"
	loggingmw "github.com/mkravets/socialnet/pkg/middleware/logging"
	ratelimitmw "github.com/mkravets/socialnet/pkg/middleware/ratelimit"
	"github.com/mkravets/socialnet/pkg/ratelimit"
)

type Deps struct {
	UserURL   string
	PostURL   string
	MediaURL  string
	SearchURL string

	JWTSecret []byte

	// Burst applies to every request; Window only to sensitive route groups.
	Burst  *ratelimit.Limiter
	Window *ratelimit.Limiter

	Logger *slog.Logger
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", echo.WrapHandler(obs.Handler()))

	for _, m := range middleware.Common() {
		e.Use(m)
	}
	e.Use(obs.Instrument())
	e.Use(loggingmw.RequestLogger(d.Logger))
	// Admission order: burst policy first, then per-group window policy, then
	// authentication, then dispatch.
	e.Use(ratelimitmw.Burst(d.Burst))

	userProxy, err := newProxy(d.UserURL, proxyOptions{service: "user"}, d.Logger)
	if err != nil {
		return err
	}
	postProxy, err := newProxy(d.PostURL, proxyOptions{service: "post", injectIdentity: true}, d.Logger)
	if err != nil {
		return err
	}
	mediaProxy, err := newProxy(d.MediaURL, proxyOptions{service: "media", injectIdentity: true, preserveMultipart: true}, d.Logger)
	if err != nil {
		return err
	}
	searchProxy, err := newProxy(d.SearchURL, proxyOptions{service: "search", injectIdentity: true}, d.Logger)
	if err != nil {
		return err
	}

	authGate := middleware.Auth(d.JWTSecret)

	auth := e.Group("/v1/auth", ratelimitmw.Window(d.Window, nil))
	auth.Any("", userProxy)
	auth.Any("/*", userProxy)

	posts := e.Group("/v1/posts", ratelimitmw.Window(d.Window, ratelimitmw.SkipReads), authGate)
	posts.Any("", postProxy)
	posts.Any("/*", postProxy)

	media := e.Group("/v1/media", ratelimitmw.Window(d.Window, nil), authGate)
	media.Any("", mediaProxy)
	media.Any("/*", mediaProxy)

	search := e.Group("/v1/search", authGate)
	search.Any("", searchProxy)
	search.Any("/*", searchProxy)

	return nil
}

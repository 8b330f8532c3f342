package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/pkg/middleware/identity"
)

type Deps struct {
	MediaHandler *MediaHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	media := e.Group("/api/media", identity.Middleware())
	media.POST("/upload", d.MediaHandler.Upload)
	media.GET("", d.MediaHandler.List)
}

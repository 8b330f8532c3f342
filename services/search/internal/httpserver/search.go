package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/pkg/middleware/identity"
	"github.com/mkravets/socialnet/pkg/respond"
	"github.com/mkravets/socialnet/services/search/internal/service"
	"github.com/mkravets/socialnet/services/search/internal/util"
)

type SearchHTTP struct {
	Svc *service.SearchService
}

func (h *SearchHTTP) Search(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	page, size = util.Clamp(page, size)

	res, err := h.Svc.Search(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "ok", res)
}

type Deps struct {
	SearchHandler *SearchHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	search := e.Group("/api/search", identity.Middleware())
	search.GET("", d.SearchHandler.Search)
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/pkg/middleware/identity"
	ratelimitmw "github.com/mkravets/socialnet/pkg/middleware/ratelimit"
	"github.com/mkravets/socialnet/pkg/ratelimit"
)

type Deps struct {
	PostHandler *PostHTTP
	Burst       *ratelimit.Limiter
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	posts := e.Group("/api/posts", ratelimitmw.Burst(d.Burst), identity.Middleware())
	posts.POST("/create", d.PostHandler.Create)
	posts.GET("", d.PostHandler.List)
	posts.GET("/:id", d.PostHandler.Get)
	posts.PUT("/:id", d.PostHandler.Update)
	posts.DELETE("/:id", d.PostHandler.Delete)
	posts.POST("/likes/:id", d.PostHandler.ToggleLike)
	posts.POST("/comments/:id", d.PostHandler.AddComment)
	posts.DELETE("/:postId/comments/:commentId", d.PostHandler.DeleteComment)
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/pkg/middleware/identity"
	"github.com/mkravets/socialnet/pkg/respond"
	"github.com/mkravets/socialnet/services/post/internal/service"
	"github.com/mkravets/socialnet/services/post/internal/transport"
	"github.com/mkravets/socialnet/services/post/internal/util"
)

type PostHTTP struct {
	Svc *service.PostService
}

func (h *PostHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post_create")

	var req transport.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad create body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.CreatePost(ctx, identity.UserID(c), req)
	if err != nil {
		return mapErr(err)
	}
	return respond.OK(c, http.StatusCreated, "post created", res)
}

func (h *PostHTTP) Get(c echo.Context) error {
	body, err := h.Svc.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapErr(err)
	}
	return respond.OK(c, http.StatusOK, "ok", body)
}

func (h *PostHTTP) List(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	page, limit := util.Clamp(page, size)
	offset := (page - 1) * limit

	body, err := h.Svc.ListPosts(c.Request().Context(), page, limit, offset)
	if err != nil {
		return mapErr(err)
	}
	return respond.OK(c, http.StatusOK, "ok", body)
}

func (h *PostHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post_update")

	var req transport.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad update body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.UpdatePost(ctx, identity.UserID(c), c.Param("id"), req)
	if err != nil {
		return mapErr(err)
	}
	return respond.OK(c, http.StatusOK, "post updated", res)
}

func (h *PostHTTP) Delete(c echo.Context) error {
	if err := h.Svc.DeletePost(c.Request().Context(), identity.UserID(c), c.Param("id")); err != nil {
		return mapErr(err)
	}
	return respond.OK(c, http.StatusOK, "post deleted", nil)
}

func (h *PostHTTP) ToggleLike(c echo.Context) error {
	res, err := h.Svc.ToggleLike(c.Request().Context(), identity.UserID(c), c.Param("id"))
	if err != nil {
		return mapErr(err)
	}
	return respond.OK(c, http.StatusOK, "ok", res)
}

func (h *PostHTTP) AddComment(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.AddComment(ctx, identity.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		return mapErr(err)
	}
	return respond.OK(c, http.StatusCreated, "comment added", res)
}

func (h *PostHTTP) DeleteComment(c echo.Context) error {
	err := h.Svc.DeleteComment(c.Request().Context(), identity.UserID(c), c.Param("postId"), c.Param("commentId"))
	if err != nil {
		return mapErr(err)
	}
	return respond.OK(c, http.StatusOK, "comment deleted", nil)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "required fields are missing")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	default:
		return err
	}
}

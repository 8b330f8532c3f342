package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/pkg/middleware/identity"
	"github.com/mkravets/socialnet/pkg/respond"
	"github.com/mkravets/socialnet/services/media/internal/service"
)

type MediaHTTP struct {
	Svc *service.MediaService
}

func (h *MediaHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "media_upload")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload without file part", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file part is required")
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	media, err := h.Svc.Upload(ctx, identity.UserID(c), fh.Filename, fh.Header.Get("Content-Type"), src)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "file name is required")
		}
		return err
	}
	return respond.OK(c, http.StatusCreated, "uploaded", media)
}

func (h *MediaHTTP) List(c echo.Context) error {
	rows, err := h.Svc.ListByUser(c.Request().Context(), identity.UserID(c))
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "ok", rows)
}

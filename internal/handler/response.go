package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"wissensbank/backend/internal/mailer"
	"wissensbank/backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes {"error": message} with status.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

func writeServiceError(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return Error(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrInvalid):
		return Error(c, http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrForbidden):
		return Error(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, service.ErrAlreadyRunning):
		return Error(c, http.StatusConflict, "scan already running")
	case errors.Is(err, service.ErrFeedFetch):
		return Error(c, http.StatusBadGateway, "feed fetch failed")
	case errors.Is(err, mailer.ErrNotConfigured):
		return Error(c, http.StatusInternalServerError, "mail not configured")
	default:
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}

func idToString(id int64) string {
	return strconv.FormatInt(id, 10)
}

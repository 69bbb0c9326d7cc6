package handlers

import (
	"net/http"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/middleware"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/labstack/echo/v4"
)

var statusByCode = map[errs.Code]int{
	errs.Internal:        http.StatusInternalServerError,
	errs.Unavailable:     http.StatusServiceUnavailable,
	errs.PartialWrite:    http.StatusInternalServerError,
	errs.Unauthenticated: http.StatusUnauthorized,
	errs.Forbidden:       http.StatusForbidden,
	errs.Validation:      http.StatusBadRequest,
	errs.NotFound:        http.StatusNotFound,
	errs.TogglePending:   http.StatusConflict,
	errs.Disposed:        http.StatusGone,
}

// httpError converts an engine error into an echo.HTTPError. Server-side failures get a generic
// message; the cause stays on the error for the request logger.
func httpError(err error) error {
	code := errs.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := err.Error()
	switch code {
	case errs.Unavailable:
		message = "Service temporarily unavailable, please retry"
	case errs.Internal, errs.PartialWrite:
		message = "Internal server error"
	}
	return echo.NewHTTPError(status, message).SetInternal(err)
}

// currentActor returns the actor the auth middleware put on the context
func currentActor(c echo.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return models.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return actor, nil
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    data,
	})
}

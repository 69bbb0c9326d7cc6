package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/picfeed/internal/models"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// SetActor stores the authenticated actor on the request context.
func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

// ActorFromContext returns the actor set by one of the auth middlewares.
func ActorFromContext(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorKey).(models.Actor)
	if !ok || actor.ID == "" {
		return models.Actor{}, false
	}
	return actor, true
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], nil
}

package handlers

import (
	"net/http"

	"github.com/anonto42/picfeed/internal/engine"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	service *engine.Service
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(service *engine.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/posts/:id/like", h.ToggleLike, auth)
}

// ToggleLike likes the post, or unlikes it if the current user already did
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	postID := c.Param("id")
	likes, err := h.service.ToggleLike(c.Request().Context(), postID, actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{
		"post_id": postID,
		"likes":   likes,
		"liked":   models.Contains(likes, actor.ID),
	})
}

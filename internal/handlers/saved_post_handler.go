package handlers

import (
	"net/http"

	"github.com/anonto42/picfeed/internal/engine"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles saved post HTTP requests
type SavedPostHandler struct {
	service *engine.Service
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(service *engine.Service) *SavedPostHandler {
	return &SavedPostHandler{service: service}
}

// RegisterSavedPostRoutes registers saved post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/posts/:id/save", h.ToggleSave, auth)
	g.GET("/saved-posts", h.GetSavedPosts, auth)
}

// ToggleSave bookmarks the post, or removes the bookmark if it is already saved
func (h *SavedPostHandler) ToggleSave(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	postID := c.Param("id")
	savedBy, err := h.service.ToggleSave(c.Request().Context(), postID, actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{
		"post_id":  postID,
		"saved_by": savedBy,
		"saved":    models.Contains(savedBy, actor.ID),
	})
}

// GetSavedPosts lists the current user's saved posts, most recently saved first
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	posts, err := h.service.SavedPosts(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"posts": posts})
}

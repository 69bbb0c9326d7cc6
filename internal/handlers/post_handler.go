package handlers

import (
	"io"
	"net/http"

	"github.com/anonto42/picfeed/internal/engine"
	"github.com/labstack/echo/v4"
)

// maxImageBytes bounds an uploaded image
const maxImageBytes = 10 << 20

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	service *engine.Service
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service *engine.Service) *PostHandler {
	return &PostHandler{service: service}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, auth)
	g.GET("/posts/mine", h.GetMyPosts, auth)
	g.DELETE("/posts/:id", h.DeletePost, auth)
}

// CreatePost publishes the multipart "image" field as a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "An image file is required")
	}
	if file.Size > maxImageBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Image is too large")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read the uploaded image")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read the uploaded image")
	}

	post, err := h.service.PublishPost(c.Request().Context(), actor, data)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, post)
}

// GetMyPosts lists the current user's posts, newest first
func (h *PostHandler) GetMyPosts(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	posts, err := h.service.PostsByAuthor(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"posts": posts})
}

// DeletePost deletes one of the current user's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), c.Param("id"), actor.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

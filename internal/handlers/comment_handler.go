package handlers

import (
	"net/http"

	"github.com/anonto42/picfeed/internal/engine"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	service *engine.Service
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service *engine.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

// RegisterCommentRoutes registers comment-related routes. Reading a thread needs no sign-in.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/posts/:id/comments", h.GetComments)
	g.POST("/posts/:id/comments", h.CreateComment, auth)
}

// GetComments returns the post's comments as a tree of root comments with nested replies
func (h *CommentHandler) GetComments(c echo.Context) error {
	tree := h.service.CommentTree(c.Request().Context(), c.Param("id"))
	return success(c, http.StatusOK, echo.Map{"comments": tree})
}

// CreateComment adds a comment, or a reply when parent_id is set
func (h *CommentHandler) CreateComment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.service.AddComment(c.Request().Context(), c.Param("id"), req.ParentID, req.Text, actor)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, comment)
}

package handlers

import (
	"net/http"

	"github.com/anonto42/picfeed/internal/engine"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the chronological feed one page at a time
type FeedHandler struct {
	service *engine.Service
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(service *engine.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the page after ?cursor=, newest first. Pass the returned next_cursor to get
// the following page; an empty page means the end of the feed.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	var q models.FeedQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	limit := q.Limit
	if limit == 0 {
		limit = h.service.PageSize()
	}
	page, err := h.service.GetPostPage(c.Request().Context(), models.Cursor(q.Cursor), limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    page,
		"meta": echo.Map{
			"limit":     limit,
			"exhausted": len(page.Items) == 0,
		},
	})
}

package router

import (
	"github.com/anonto42/picfeed/internal/engine"
	"github.com/anonto42/picfeed/internal/handlers"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SetupRoutes registers every route. Reads of the feed and of comment threads are public;
// everything else passes through auth.
func SetupRoutes(e *echo.Echo, service *engine.Service, auth echo.MiddlewareFunc, logger *zap.Logger) {
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")

	handlers.NewFeedHandler(service).RegisterFeedRoutes(api)
	handlers.NewPostHandler(service).RegisterPostRoutes(api, auth)
	handlers.NewLikeHandler(service).RegisterLikeRoutes(api, auth)
	handlers.NewSavedPostHandler(service).RegisterSavedPostRoutes(api, auth)
	handlers.NewCommentHandler(service).RegisterCommentRoutes(api, auth)

	logger.Info("routes configured", zap.Int("count", len(e.Routes())))
}

package main

import (
	"context"
	"fmt"

	"github.com/anonto42/picfeed/internal/media"
	"github.com/anonto42/picfeed/internal/middleware"
	"github.com/anonto42/picfeed/internal/repositories"
	"github.com/anonto42/picfeed/pkg/config"
	"github.com/anonto42/picfeed/pkg/firebase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// closer releases a backend's connections on shutdown
type closer func()

func buildStore(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (repositories.Store, closer, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return repositories.NewMemoryStore(), func() {}, nil

	case config.StorageFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewFirestoreStore(client), func() {
			if err := client.Close(); err != nil {
				logger.Error("error closing firestore client", zap.Error(err))
			}
		}, nil

	case config.StorageMongo:
		db, err := config.InitDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		posts := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
		if err := posts.EnsureIndexes(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		store := repositories.Composite{
			PostRepository:      posts,
			CommentRepository:   repositories.NewPostgresCommentRepository(db.Postgres),
			SavedPostRepository: repositories.NewPostgresSavedPostRepository(db.Postgres),
		}
		return store, db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func buildUploader(ctx context.Context, cfg *config.Config, app *firebase.App) (media.Uploader, error) {
	switch cfg.MediaBackend {
	case config.MediaFirebase:
		bucket, err := app.DefaultBucket(ctx)
		if err != nil {
			return nil, err
		}
		return media.NewGCSUploader(bucket, cfg.FirebaseStorageBucket), nil

	case config.MediaMinio:
		uploader, err := media.NewMinioUploader(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		if err := uploader.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return uploader, nil
	}
	return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
}

func buildAuth(ctx context.Context, cfg *config.Config, app *firebase.App) (echo.MiddlewareFunc, error) {
	switch cfg.AuthMode {
	case config.AuthFirebase:
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, err
		}
		return middleware.FirebaseAuthMiddleware(client), nil

	case config.AuthJWT:
		return middleware.JWTAuthMiddleware(cfg.JWTSecret), nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
}

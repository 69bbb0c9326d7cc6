package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// App wraps the Firebase app. Clients are created on demand so a deployment only
// touches the Firebase products it is configured to use.
type App struct {
	FirebaseApp   *firebase.App
	StorageBucket string
	logger        *zap.Logger
}

// InitFirebase initializes the Firebase application from a service account file
func InitFirebase(ctx context.Context, credentialsPath, storageBucket string, logger *zap.Logger) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)
	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: storageBucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	logger.Info("firebase app initialized", zap.String("storage_bucket", storageBucket))
	return &App{FirebaseApp: firebaseApp, StorageBucket: storageBucket, logger: logger}, nil
}

// Auth returns the ID token verifier
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	client, err := a.FirebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}
	a.logger.Info("firebase auth client ready")
	return client, nil
}

// Firestore returns a Firestore client; the caller closes it
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := a.FirebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}
	a.logger.Info("firestore client ready")
	return client, nil
}

// DefaultBucket returns the project's Cloud Storage bucket
func (a *App) DefaultBucket(ctx context.Context) (*storage.BucketHandle, error) {
	client, err := a.FirebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error opening storage bucket %s: %w", a.StorageBucket, err)
	}
	return bucket, nil
}

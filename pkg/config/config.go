package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backends selectable through the environment
const (
	StorageFirestore = "firestore"
	StorageMongo     = "mongo"
	StorageMemory    = "memory"

	MediaFirebase = "firebase"
	MediaMinio    = "minio"

	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	MetricsPort string

	StorageBackend string
	MediaBackend   string
	AuthMode       string
	JWTSecret      string

	FirebaseCredentialsPath string
	FirebaseStorageBucket   string

	PostgresConnStr string
	MongoURI        string
	MongoDatabase   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPublicURL string
	MinioUseSSL    bool

	FeedPageSize int
}

// Load reads .env when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		StorageBackend:          getEnv("STORAGE_BACKEND", StorageFirestore),
		MediaBackend:            getEnv("MEDIA_BACKEND", MediaFirebase),
		AuthMode:                getEnv("AUTH_MODE", AuthFirebase),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseStorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "picfeed"),
		MinioEndpoint:           getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:          getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:          getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:             getEnv("MINIO_BUCKET", "picfeed"),
		MinioPublicURL:          getEnv("MINIO_PUBLIC_URL", ""),
		MinioUseSSL:             getEnvAsBool("MINIO_USE_SSL", false),
		FeedPageSize:            getEnvAsInt("FEED_PAGE_SIZE", 10),
	}
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageFirestore, StorageMemory:
	case StorageMongo:
		if c.MongoURI == "" || c.PostgresConnStr == "" {
			return fmt.Errorf("STORAGE_BACKEND=mongo needs MONGO_URI and POSTGRES_CONN_STR")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.MediaBackend {
	case MediaFirebase:
		if c.FirebaseStorageBucket == "" {
			return fmt.Errorf("MEDIA_BACKEND=firebase needs FIREBASE_STORAGE_BUCKET")
		}
	case MediaMinio:
		if c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return fmt.Errorf("MEDIA_BACKEND=minio needs MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND %q", c.MediaBackend)
	}

	switch c.AuthMode {
	case AuthFirebase:
	case AuthJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("AUTH_MODE=jwt needs JWT_SECRET")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	if c.FeedPageSize < 1 || c.FeedPageSize > 50 {
		return fmt.Errorf("FEED_PAGE_SIZE must be between 1 and 50, got %d", c.FeedPageSize)
	}
	return nil
}

// NeedsFirebase reports whether any selected backend runs on the Firebase project.
func (c *Config) NeedsFirebase() bool {
	return c.StorageBackend == StorageFirestore || c.MediaBackend == MediaFirebase || c.AuthMode == AuthFirebase
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

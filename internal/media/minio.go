package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader writes to an S3-compatible bucket.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioUploader connects to endpoint. publicURL is the base the bucket is served under;
// when empty the endpoint itself is used.
func NewMinioUploader(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*MinioUploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, endpoint)
	}
	return &MinioUploader{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (u *MinioUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return errs.Wrap(errs.Unavailable, "check bucket", err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return errs.Wrap(errs.Unavailable, "create bucket "+u.bucket, err)
	}
	return nil
}

func (u *MinioUploader) Upload(ctx context.Context, data []byte, contentType, ext string) (string, error) {
	name := ObjectName(ext)
	_, err := u.client.PutObject(ctx, u.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errs.Wrap(errs.Unavailable, "upload image", err)
	}
	return u.objectURL(name), nil
}

func (u *MinioUploader) objectURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, name)
}

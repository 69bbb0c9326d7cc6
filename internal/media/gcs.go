package media

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/anonto42/picfeed/internal/errs"
)

// GCSUploader writes to a Cloud Storage bucket, normally the Firebase project's default bucket.
type GCSUploader struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSUploader(bucket *storage.BucketHandle, bucketName string) *GCSUploader {
	return &GCSUploader{bucket: bucket, bucketName: bucketName}
}

func (u *GCSUploader) Upload(ctx context.Context, data []byte, contentType, ext string) (string, error) {
	name := ObjectName(ext)
	writer := u.bucket.Object(name).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return "", errs.Wrap(errs.Unavailable, "upload image", err)
	}
	// the object only exists once Close succeeds
	if err := writer.Close(); err != nil {
		return "", errs.Wrap(errs.Unavailable, "finalize image upload", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucketName, name), nil
}

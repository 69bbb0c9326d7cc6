// Package media stores post images and hands back the URL they are served from.
package media

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType, ext string) (string, error)
}

// ObjectName builds a collision-free object key under posts/. ext may be given with or
// without its leading dot.
func ObjectName(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join("posts", uuid.NewString()+ext)
}

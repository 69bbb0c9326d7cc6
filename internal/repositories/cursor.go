package repositories

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
)

// EncodeCursor packs the sort key of the last post of a page into an opaque token.
func EncodeCursor(createdAt time.Time, id string) models.Cursor {
	raw := strconv.FormatInt(createdAt.UnixNano(), 10) + ":" + id
	return models.Cursor(base64.RawURLEncoding.EncodeToString([]byte(raw)))
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(c models.Cursor) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return time.Time{}, "", errs.Wrap(errs.Validation, "invalid cursor", err)
	}
	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return time.Time{}, "", errs.New(errs.Validation, "invalid cursor")
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return time.Time{}, "", errs.Wrap(errs.Validation, "invalid cursor", err)
	}
	return time.Unix(0, n).UTC(), id, nil
}

// pageCursor returns the cursor for a page, empty when the page is empty.
func pageCursor(items []models.Post) models.Cursor {
	if len(items) == 0 {
		return ""
	}
	last := items[len(items)-1]
	return EncodeCursor(last.CreatedAt, last.ID)
}

// NormalizePageSize clamps n to [1, MaxPageSize], using DefaultPageSize for non-positive values.
func NormalizePageSize(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

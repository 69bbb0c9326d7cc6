package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)

	c := EncodeCursor(ts, "65f1c0ffee")
	gotTS, gotID, err := DecodeCursor(c)

	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTS))
	assert.Equal(t, "65f1c0ffee", gotID)
}

func TestCursorKeepsColonsInID(t *testing.T) {
	_, id, err := DecodeCursor(EncodeCursor(time.Unix(5, 0), "a:b"))
	require.NoError(t, err)
	assert.Equal(t, "a:b", id)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, c := range []models.Cursor{"***", "bm9jb2xvbg", "eHl6OmFiYw"} {
		_, _, err := DecodeCursor(c)
		assert.True(t, errors.Is(err, errs.ErrValidation), "cursor %q", c)
	}
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, DefaultPageSize, NormalizePageSize(-3))
	assert.Equal(t, 2, NormalizePageSize(2))
	assert.Equal(t, MaxPageSize, NormalizePageSize(500))
}

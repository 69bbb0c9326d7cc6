package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"go.uber.org/zap"
)

// Pager fetches one page of posts, newest first, strictly after cursor.
type Pager interface {
	GetPostPage(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error)
}

// MergeUnique appends page to acc and drops every post whose id already appeared earlier.
// Neither input is modified.
func MergeUnique(acc, page []models.Post) []models.Post {
	merged := make([]models.Post, 0, len(acc)+len(page))
	seen := make(map[string]struct{}, len(acc)+len(page))
	for _, batch := range [][]models.Post{acc, page} {
		for _, p := range batch {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}

// FeedState is a point-in-time copy of a Feed.
type FeedState struct {
	Items     []models.Post `json:"posts"`
	Cursor    models.Cursor `json:"cursor"`
	PageCount int           `json:"page_count"`
	Loading   bool          `json:"loading"`
	Exhausted bool          `json:"exhausted"`
}

// LastID is the id of the last accumulated post, the infinite-scroll sentinel.
func (s FeedState) LastID() string {
	if len(s.Items) == 0 {
		return ""
	}
	return s.Items[len(s.Items)-1].ID
}

type fetchMode int

const (
	fetchLoad fetchMode = iota
	fetchAdvance
	fetchReset
)

// Feed accumulates pages for one viewing session. At most one fetch is in flight; a Reset
// supersedes it and its result is dropped when it lands, as is any result landing after Dispose.
type Feed struct {
	pager    Pager
	pageSize int
	logger   *zap.Logger

	mu         sync.Mutex
	items      []models.Post
	cursor     models.Cursor
	pageCount  int
	loading    bool
	exhausted  bool
	disposed   bool
	generation uint64
}

func NewFeed(pager Pager, pageSize int, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		pager:     pager,
		pageSize:  pageSize,
		logger:    logger,
		items:     []models.Post{},
		pageCount: 1,
	}
}

// Load fetches the page after the current cursor without touching the page counter. On a
// fresh feed that is page one. The bool is false when the call was skipped or its result dropped.
func (f *Feed) Load(ctx context.Context) (bool, error) {
	return f.fetch(ctx, fetchLoad)
}

// Advance bumps the page counter and fetches the next page. It is skipped while a fetch is
// in flight.
func (f *Feed) Advance(ctx context.Context) (bool, error) {
	return f.fetch(ctx, fetchAdvance)
}

// Reset drops the accumulated posts and the cursor and fetches page one again.
func (f *Feed) Reset(ctx context.Context) (bool, error) {
	return f.fetch(ctx, fetchReset)
}

// Dispose ends the session. Later calls fail with Disposed.
func (f *Feed) Dispose() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposed = true
	f.loading = false
}

func (f *Feed) Snapshot() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FeedState{
		Items:     append([]models.Post{}, f.items...),
		Cursor:    f.cursor,
		PageCount: f.pageCount,
		Loading:   f.loading,
		Exhausted: f.exhausted,
	}
}

func (f *Feed) fetch(ctx context.Context, mode fetchMode) (bool, error) {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return false, errs.New(errs.Disposed, "feed session has ended")
	}
	if mode == fetchReset {
		f.items = []models.Post{}
		f.cursor = ""
		f.exhausted = false
		f.loading = false
		f.generation++
	}
	if f.loading {
		f.mu.Unlock()
		return false, nil
	}
	if mode == fetchAdvance {
		f.pageCount++
	}
	f.loading = true
	gen, cursor := f.generation, f.cursor
	f.mu.Unlock()

	page, err := f.pager.GetPostPage(ctx, cursor, f.pageSize)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed || gen != f.generation {
		f.logger.Debug("dropping superseded feed page", zap.Bool("disposed", f.disposed))
		return false, nil
	}
	f.loading = false
	if err != nil {
		return false, fmt.Errorf("fetch feed page: %w", err)
	}
	if len(page.Items) == 0 {
		f.exhausted = true
		return true, nil
	}
	f.items = MergeUnique(f.items, page.Items)
	f.cursor = page.Cursor
	f.exhausted = false
	return true, nil
}

package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory. It backs STORAGE_BACKEND=memory and the tests.
type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	lastTime time.Time
	posts    map[string]*models.Post
	comments map[string][]models.Comment
	saved    map[string][]models.SavedPost
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		posts:    make(map[string]*models.Post),
		comments: make(map[string][]models.Comment),
		saved:    make(map[string][]models.SavedPost),
	}
}

// timestamp is strictly increasing so creation order is total. Caller holds mu.
func (s *MemoryStore) timestamp() time.Time {
	t := s.now().UTC()
	if !t.After(s.lastTime) {
		t = s.lastTime.Add(time.Microsecond)
	}
	s.lastTime = t
	return t
}

func (s *MemoryStore) sortedPosts() []models.Post {
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return newerThan(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out
}

func newerThan(at time.Time, id string, bt time.Time, bid string) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return id > bid
}

func clonePost(p *models.Post) models.Post {
	c := *p
	c.Likes = append([]string{}, p.Likes...)
	c.SavedBy = append([]string{}, p.SavedBy...)
	return c
}

// GetPostPage returns posts strictly after cursor, newest first
func (s *MemoryStore) GetPostPage(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := s.sortedPosts()
	start := 0
	if !cursor.IsZero() {
		ts, id, err := DecodeCursor(cursor)
		if err != nil {
			return models.PostPage{}, err
		}
		start = sort.Search(len(posts), func(i int) bool {
			return newerThan(ts, id, posts[i].CreatedAt, posts[i].ID)
		})
	}
	end := start + NormalizePageSize(pageSize)
	if end > len(posts) {
		end = len(posts)
	}
	items := posts[start:end]
	return models.PostPage{Items: items, Cursor: pageCursor(items)}, nil
}

func (s *MemoryStore) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, errs.Newf(errs.NotFound, "post %s not found", postID)
	}
	c := clonePost(p)
	return &c, nil
}

func (s *MemoryStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Post{}
	for _, p := range s.sortedPosts() {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreatePost(ctx context.Context, imageURL, authorID, authorName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.posts[id] = &models.Post{
		ID:         id,
		AuthorID:   authorID,
		AuthorName: authorName,
		ImageURL:   imageURL,
		Likes:      []string{},
		SavedBy:    []string{},
		CreatedAt:  s.timestamp(),
	}
	return id, nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		return errs.Newf(errs.NotFound, "post %s not found", postID)
	}
	delete(s.posts, postID)
	delete(s.comments, postID)
	return nil
}

func (s *MemoryStore) GetMembers(ctx context.Context, postID string, set models.MemberSet) ([]string, error) {
	p, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if set == models.SetSavedBy {
		return p.SavedBy, nil
	}
	return p.Likes, nil
}

func (s *MemoryStore) MutateMembership(ctx context.Context, postID string, set models.MemberSet, actorID string, op models.MembershipOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return errs.Newf(errs.NotFound, "post %s not found", postID)
	}
	members := &p.Likes
	if set == models.SetSavedBy {
		members = &p.SavedBy
	}
	switch op {
	case models.OpAdd:
		if !models.Contains(*members, actorID) {
			*members = append(*members, actorID)
		}
	case models.OpRemove:
		kept := (*members)[:0]
		for _, m := range *members {
			if m != actorID {
				kept = append(kept, m)
			}
		}
		*members = kept
	}
	return nil
}

func (s *MemoryStore) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Comment{}, s.comments[postID]...), nil
}

func (s *MemoryStore) CreateComment(ctx context.Context, postID string, parentID *string, text, authorID, authorName string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Comment{
		ID:         uuid.NewString(),
		PostID:     postID,
		ParentID:   parentID,
		Text:       text,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  s.timestamp(),
	}
	s.comments[postID] = append(s.comments[postID], c)
	return &c, nil
}

func (s *MemoryStore) PutSavedRecord(ctx context.Context, actorID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.saved[actorID] {
		if r.PostID == postID {
			return nil
		}
	}
	s.saved[actorID] = append(s.saved[actorID], models.SavedPost{UserID: actorID, PostID: postID, CreatedAt: s.timestamp()})
	return nil
}

func (s *MemoryStore) DeleteSavedRecord(ctx context.Context, actorID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.saved[actorID]
	for i, r := range records {
		if r.PostID == postID {
			s.saved[actorID] = append(records[:i:i], records[i+1:]...)
			break
		}
	}
	return nil
}

// ListSavedPostIDs returns the most recently saved first
func (s *MemoryStore) ListSavedPostIDs(ctx context.Context, actorID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.saved[actorID]
	ids := make([]string, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		ids = append(ids, records[i].PostID)
	}
	return ids, nil
}

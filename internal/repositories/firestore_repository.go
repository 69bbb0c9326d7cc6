package repositories

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on Cloud Firestore:
//
//	posts/{postId}                      imageURL, username, userId, likes[], savedBy[], createdAt
//	posts/{postId}/comments/{commentId} text, userId, username, parentId, createdAt
//	users/{userId}/savedPosts/{postId}  postId, savedAt
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new FirestoreStore
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

type savedPostDocument struct {
	PostID  string    `firestore:"postId"`
	SavedAt time.Time `firestore:"savedAt"`
}

func (s *FirestoreStore) posts() *firestore.CollectionRef {
	return s.client.Collection("posts")
}

func (s *FirestoreStore) comments(postID string) *firestore.CollectionRef {
	return s.posts().Doc(postID).Collection("comments")
}

func (s *FirestoreStore) savedPosts(actorID string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(actorID).Collection("savedPosts")
}

// storeError maps a Firestore status onto the error taxonomy
func storeError(err error, what, postID string) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return errs.Newf(errs.NotFound, "post %s not found", postID)
	}
	return errs.Wrap(errs.Unavailable, what, err)
}

func decodePost(snap *firestore.DocumentSnapshot) (models.Post, error) {
	var p models.Post
	if err := snap.DataTo(&p); err != nil {
		return models.Post{}, errs.Wrap(errs.Internal, "decode post "+snap.Ref.ID, err)
	}
	p.ID = snap.Ref.ID
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.SavedBy == nil {
		p.SavedBy = []string{}
	}
	return p, nil
}

func decodePosts(snaps []*firestore.DocumentSnapshot) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(snaps))
	for _, snap := range snaps {
		p, err := decodePost(snap)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// GetPostPage orders by createdAt then document id, both descending, and resumes after the cursor
func (s *FirestoreStore) GetPostPage(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error) {
	q := s.posts().
		OrderBy("createdAt", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Desc)
	if !cursor.IsZero() {
		ts, id, err := DecodeCursor(cursor)
		if err != nil {
			return models.PostPage{}, err
		}
		q = q.StartAfter(ts, id)
	}

	snaps, err := q.Limit(NormalizePageSize(pageSize)).Documents(ctx).GetAll()
	if err != nil {
		return models.PostPage{}, errs.Wrap(errs.Unavailable, "query posts", err)
	}
	items, err := decodePosts(snaps)
	if err != nil {
		return models.PostPage{}, err
	}
	return models.PostPage{Items: items, Cursor: pageCursor(items)}, nil
}

func (s *FirestoreStore) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	snap, err := s.posts().Doc(postID).Get(ctx)
	if err != nil {
		return nil, storeError(err, "get post", postID)
	}
	p, err := decodePost(snap)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPostsByAuthor filters on userId and sorts in process, so no composite index is needed
func (s *FirestoreStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	snaps, err := s.posts().Where("userId", "==", authorID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "query posts by author", err)
	}
	posts, err := decodePosts(snaps)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (s *FirestoreStore) CreatePost(ctx context.Context, imageURL, authorID, authorName string) (string, error) {
	ref, _, err := s.posts().Add(ctx, models.Post{
		AuthorID:   authorID,
		AuthorName: authorName,
		ImageURL:   imageURL,
		Likes:      []string{},
		SavedBy:    []string{},
	})
	if err != nil {
		return "", errs.Wrap(errs.Unavailable, "add post", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) DeletePost(ctx context.Context, postID string) error {
	_, err := s.posts().Doc(postID).Delete(ctx, firestore.Exists)
	return storeError(err, "delete post", postID)
}

func (s *FirestoreStore) GetMembers(ctx context.Context, postID string, set models.MemberSet) ([]string, error) {
	p, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if set == models.SetSavedBy {
		return p.SavedBy, nil
	}
	return p.Likes, nil
}

// MutateMembership uses arrayUnion / arrayRemove transforms
func (s *FirestoreStore) MutateMembership(ctx context.Context, postID string, set models.MemberSet, actorID string, op models.MembershipOp) error {
	var value any = firestore.ArrayUnion(actorID)
	if op == models.OpRemove {
		value = firestore.ArrayRemove(actorID)
	}
	_, err := s.posts().Doc(postID).Update(ctx, []firestore.Update{{Path: string(set), Value: value}})
	return storeError(err, op.String()+" "+string(set), postID)
}

func (s *FirestoreStore) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	snaps, err := s.comments(postID).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "query comments", err)
	}
	comments := make([]models.Comment, 0, len(snaps))
	for _, snap := range snaps {
		var c models.Comment
		if err := snap.DataTo(&c); err != nil {
			return nil, errs.Wrap(errs.Internal, "decode comment "+snap.Ref.ID, err)
		}
		c.ID = snap.Ref.ID
		c.PostID = postID
		comments = append(comments, c)
	}
	return comments, nil
}

func (s *FirestoreStore) CreateComment(ctx context.Context, postID string, parentID *string, text, authorID, authorName string) (*models.Comment, error) {
	c := models.Comment{
		PostID:     postID,
		ParentID:   parentID,
		Text:       text,
		AuthorID:   authorID,
		AuthorName: authorName,
	}
	ref, _, err := s.comments(postID).Add(ctx, c)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "add comment", err)
	}
	c.ID = ref.ID
	// the stored value is the server timestamp; this is the client's estimate of it
	c.CreatedAt = time.Now().UTC()
	return &c, nil
}

func (s *FirestoreStore) PutSavedRecord(ctx context.Context, actorID, postID string) error {
	doc := savedPostDocument{PostID: postID, SavedAt: time.Now().UTC()}
	_, err := s.savedPosts(actorID).Doc(postID).Set(ctx, doc)
	return errs.Wrap(errs.Unavailable, "save post", err)
}

func (s *FirestoreStore) DeleteSavedRecord(ctx context.Context, actorID, postID string) error {
	_, err := s.savedPosts(actorID).Doc(postID).Delete(ctx)
	return errs.Wrap(errs.Unavailable, "unsave post", err)
}

func (s *FirestoreStore) ListSavedPostIDs(ctx context.Context, actorID string) ([]string, error) {
	snaps, err := s.savedPosts(actorID).OrderBy("savedAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "query saved posts", err)
	}
	ids := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		var doc savedPostDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, errs.Wrap(errs.Internal, "decode saved post "+snap.Ref.ID, err)
		}
		ids = append(ids, doc.PostID)
	}
	return ids, nil
}

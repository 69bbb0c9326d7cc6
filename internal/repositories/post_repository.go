package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/picfeed/internal/errs"
	"github.com/anonto42/picfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// postDocument is the MongoDB shape of a post
type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Username  string             `bson:"username"`
	ImageURL  string             `bson:"image_url"`
	Likes     []string           `bson:"likes"`
	SavedBy   []string           `bson:"saved_by"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d postDocument) toModel() models.Post {
	likes, saved := d.Likes, d.SavedBy
	if likes == nil {
		likes = []string{}
	}
	if saved == nil {
		saved = []string{}
	}
	return models.Post{
		ID:         d.ID.Hex(),
		AuthorID:   d.UserID,
		AuthorName: d.Username,
		ImageURL:   d.ImageURL,
		Likes:      likes,
		SavedBy:    saved,
		CreatedAt:  d.CreatedAt,
	}
}

// setField maps a member set onto its document field
func setField(set models.MemberSet) string {
	if set == models.SetSavedBy {
		return "saved_by"
	}
	return "likes"
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the feed ordering and author indexes
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return errs.Wrap(errs.Unavailable, "create post indexes", err)
}

func parseObjectID(postID string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return primitive.NilObjectID, errs.Newf(errs.NotFound, "post %s not found", postID)
	}
	return objID, nil
}

// GetPostPage retrieves the posts strictly after cursor, newest first
func (r *MongoPostRepository) GetPostPage(ctx context.Context, cursor models.Cursor, pageSize int) (models.PostPage, error) {
	filter := bson.M{}
	if !cursor.IsZero() {
		ts, id, err := DecodeCursor(cursor)
		if err != nil {
			return models.PostPage{}, err
		}
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return models.PostPage{}, errs.Wrap(errs.Validation, "invalid cursor", err)
		}
		filter = bson.M{"$or": bson.A{
			bson.M{"created_at": bson.M{"$lt": ts}},
			bson.M{"created_at": ts, "_id": bson.M{"$lt": objID}},
		}}
	}

	findOptions := options.Find().
		SetLimit(int64(NormalizePageSize(pageSize))).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	items, err := r.find(ctx, filter, findOptions)
	if err != nil {
		return models.PostPage{}, err
	}
	return models.PostPage{Items: items, Cursor: pageCursor(items)}, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "find posts", err)
	}
	defer cur.Close(ctx)

	var docs []postDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "decode posts", err)
	}
	posts := make([]models.Post, len(docs))
	for i, d := range docs {
		posts[i] = d.toModel()
	}
	return posts, nil
}

// GetPost retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	objID, err := parseObjectID(postID)
	if err != nil {
		return nil, err
	}

	var doc postDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.Newf(errs.NotFound, "post %s not found", postID)
		}
		return nil, errs.Wrap(errs.Unavailable, "get post", err)
	}
	post := doc.toModel()
	return &post, nil
}

// ListPostsByAuthor retrieves posts by a specific user, newest first
func (r *MongoPostRepository) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": authorID}, findOptions)
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, imageURL, authorID, authorName string) (string, error) {
	doc := postDocument{
		ID:        primitive.NewObjectID(),
		UserID:    authorID,
		Username:  authorName,
		ImageURL:  imageURL,
		Likes:     []string{},
		SavedBy:   []string{},
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", errs.Wrap(errs.Unavailable, "insert post", err)
	}
	return doc.ID.Hex(), nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, postID string) error {
	objID, err := parseObjectID(postID)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errs.Wrap(errs.Unavailable, "delete post", err)
	}
	if res.DeletedCount == 0 {
		return errs.Newf(errs.NotFound, "post %s not found", postID)
	}
	return nil
}

// GetMembers reads one actor set of a post, projecting only that field
func (r *MongoPostRepository) GetMembers(ctx context.Context, postID string, set models.MemberSet) ([]string, error) {
	objID, err := parseObjectID(postID)
	if err != nil {
		return nil, err
	}

	field := setField(set)
	var doc postDocument
	opts := options.FindOne().SetProjection(bson.M{field: 1})
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.Newf(errs.NotFound, "post %s not found", postID)
		}
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("read %s", field), err)
	}
	post := doc.toModel()
	if set == models.SetSavedBy {
		return post.SavedBy, nil
	}
	return post.Likes, nil
}

// MutateMembership applies $addToSet or $pull so concurrent toggles by different actors commute
func (r *MongoPostRepository) MutateMembership(ctx context.Context, postID string, set models.MemberSet, actorID string, op models.MembershipOp) error {
	objID, err := parseObjectID(postID)
	if err != nil {
		return err
	}

	operator := "$addToSet"
	if op == models.OpRemove {
		operator = "$pull"
	}
	update := bson.M{operator: bson.M{setField(set): actorID}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("%s %s", op, setField(set)), err)
	}
	if res.MatchedCount == 0 {
		return errs.Newf(errs.NotFound, "post %s not found", postID)
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/entrelinhas/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when a post id matches no document.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the interface for post data operations.
// Likes, reports and comments are mutated with atomic document-level
// operators so concurrent requests against the same post cannot lose
// an update.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetVisiblePosts(ctx context.Context) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	HasPostedSince(ctx context.Context, userID uint, since time.Time) (bool, error)
	DeletePost(ctx context.Context, id string) error
	AddLike(ctx context.Context, id string, userID uint) (int, error)
	RemoveLike(ctx context.Context, id string, userID uint) (int, error)
	AddReport(ctx context.Context, id string, userID uint) (int, error)
	HidePost(ctx context.Context, id string) error
	AddComment(ctx context.Context, postID string, comment *models.Comment) error
	RemoveComment(ctx context.Context, postID string, commentID primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	if post.Reports == nil {
		post.Reports = []uint{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetVisiblePosts retrieves every post whose hidden flag is false or
// absent, newest first.
func (r *MongoPostRepository) GetVisiblePosts(ctx context.Context) ([]models.Post, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"hidden": false},
		bson.M{"hidden": bson.M{"$exists": false}},
	}}
	return r.findPosts(ctx, filter)
}

// GetPostsByUserID retrieves posts owned by a specific user, newest first
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.findPosts(ctx, bson.M{"user_id": userID})
}

// GetAllPosts retrieves every post, hidden ones included, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return r.findPosts(ctx, bson.M{})
}

func (r *MongoPostRepository) findPosts(ctx context.Context, filter bson.M) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// HasPostedSince reports whether the user owns a post created at or after
// the given instant.
func (r *MongoPostRepository) HasPostedSince(ctx context.Context, userID uint, since time.Time) (bool, error) {
	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddLike adds the user to the post's like set ($addToSet, so a repeat
// cannot duplicate) and returns the resulting like count.
func (r *MongoPostRepository) AddLike(ctx context.Context, id string, userID uint) (int, error) {
	return r.updateAndCountLikes(ctx, id, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes the user from the post's like set and returns the
// resulting like count.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, id string, userID uint) (int, error) {
	return r.updateAndCountLikes(ctx, id, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *MongoPostRepository) updateAndCountLikes(ctx context.Context, id string, update bson.M) (int, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrPostNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return len(post.Likes), nil
}

// AddReport adds the user to the post's report set and returns the
// resulting report count.
func (r *MongoPostRepository) AddReport(ctx context.Context, id string, userID uint) (int, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrPostNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$addToSet": bson.M{"reports": userID}}
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return len(post.Reports), nil
}

// HidePost marks a post as hidden so it no longer appears in listings
func (r *MongoPostRepository) HidePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"hidden": true}})
	return err
}

// AddComment appends a comment to the post's embedded comment array
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// RemoveComment pulls one comment out of the post's embedded comment array
func (r *MongoPostRepository) RemoveComment(ctx context.Context, postID string, commentID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}

	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

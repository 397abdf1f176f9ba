package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a mood entry stored in MongoDB. Likes, reports and
// comments live embedded in the post document.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"userId" bson:"user_id"`
	Username  string             `json:"username" bson:"username"` // denormalized owner username
	Content   string             `json:"content" bson:"content"`
	Anonymous bool               `json:"anonymous" bson:"anonymous"`
	HideLikes bool               `json:"hideLikes" bson:"hide_likes"`
	Mood      string             `json:"mood" bson:"mood"`
	Likes     []uint             `json:"likes" bson:"likes"`
	Reports   []uint             `json:"reports" bson:"reports"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	Hidden    bool               `json:"hidden" bson:"hidden"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// Comment is embedded in a post's comment array
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"userId" bson:"user_id"`
	Username  string             `json:"username" bson:"username"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// HistoryComment is a comment annotated with the id of the post it belongs to
type HistoryComment struct {
	PostID primitive.ObjectID `json:"postId"`
	Comment
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string `json:"content" validate:"required,max=500"`
	Anonymous bool   `json:"anonymous"`
	HideLikes bool   `json:"hideLikes"`
	Mood      string `json:"mood"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=250"`
}

package repositories

import (
	"context"

	"github.com/qwiksocial/backend/internal/models"
)

// LikeRepository defines data access for post likes.
type LikeRepository interface {
	// Toggle atomically creates the (user, post) like when absent or removes
	// it when present, and reports the resulting state together with the
	// post's like count after the mutation. Two concurrent identical
	// requests must resolve deterministically against the unique index
	// rather than both inserting.
	Toggle(ctx context.Context, userID, postID string) (liked bool, count int, err error)
}

// CommentRepository defines data access for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	// ListForPost returns the post's comments newest first.
	ListForPost(ctx context.Context, postID string) ([]models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
}

package handlers

import (
	"context"
	"io"

	"github.com/qwiksocial/backend/internal/models"
	"github.com/qwiksocial/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the HTTP handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

// SessionManager issues, refreshes and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, user models.User) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
}

// PostStore captures persistence for posts and feed composition.
type PostStore interface {
	Create(ctx context.Context, post models.Post) error
	FindVisible(ctx context.Context, id string, viewerID string) (models.FeedItem, error)
	FindByID(ctx context.Context, id string) (models.Post, error)
	Update(ctx context.Context, post models.Post) error
	Delete(ctx context.Context, id string) error
	ListFeed(ctx context.Context, q repositories.FeedQuery) ([]models.FeedItem, error)
}

// FollowStore captures persistence for the social graph.
type FollowStore interface {
	Create(ctx context.Context, follow models.Follow) error
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	Counts(ctx context.Context, userID string) (repositories.FollowCounts, error)
}

// LikeStore toggles per-user post likes.
type LikeStore interface {
	Toggle(ctx context.Context, userID, postID string) (liked bool, count int, err error)
}

// CommentStore captures persistence for comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListForPost(ctx context.Context, postID string) ([]models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
}

// MediaStore uploads post media to the object store collaborator.
type MediaStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

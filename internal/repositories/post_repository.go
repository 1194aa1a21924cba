package repositories

import (
	"context"

	"github.com/qwiksocial/backend/internal/models"
)

// FeedMode selects which slice of the visible posts a feed query returns.
type FeedMode string

const (
	// FeedModeDefault lists every visible post, newest first.
	FeedModeDefault FeedMode = "default"
	// FeedModeFollowing restricts owners to the viewer and the users they follow.
	FeedModeFollowing FeedMode = "following"
	// FeedModeTrending orders by like count, then comment count, then recency.
	FeedModeTrending FeedMode = "trending"
)

// FeedQuery describes one feed request. Search, when non-empty, applies a
// case-insensitive caption substring filter in every mode.
type FeedQuery struct {
	ViewerID string
	Mode     FeedMode
	Search   string
}

// PostRepository defines data access for posts and their list views.
type PostRepository interface {
	Create(ctx context.Context, post models.Post) error
	// FindVisible returns the post only when it is active and unexpired at
	// the repository's clock; expired posts surface as ErrNotFound so read
	// paths never leak their existence.
	FindVisible(ctx context.Context, id string, viewerID string) (models.FeedItem, error)
	// FindByID returns the post regardless of visibility. Owner-only paths
	// (delete, convert) need the raw row.
	FindByID(ctx context.Context, id string) (models.Post, error)
	Update(ctx context.Context, post models.Post) error
	Delete(ctx context.Context, id string) error
	ListFeed(ctx context.Context, q FeedQuery) ([]models.FeedItem, error)
}

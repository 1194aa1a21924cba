package repositories

import (
	"context"

	"github.com/qwiksocial/backend/internal/models"
)

// FollowCounts aggregates the social graph edges around one user. The counts
// are computed from the edge set on demand rather than maintained as
// counters, so they are always consistent with it.
type FollowCounts struct {
	Followers int
	Following int
}

// FollowRepository defines data access for follow relationships.
type FollowRepository interface {
	Create(ctx context.Context, follow models.Follow) error
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	Counts(ctx context.Context, userID string) (FollowCounts, error)
}

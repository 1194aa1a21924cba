// Package authz holds the stateless authorization predicates shared by the
// HTTP handlers. Every check fails with a distinct sentinel error so callers
// can map each refusal to a stable status code; none of them silently no-op.
package authz

import (
	"errors"

	"github.com/qwiksocial/backend/internal/models"
)

var (
	// ErrForbidden indicates the actor does not own the target resource.
	ErrForbidden = errors.New("actor does not own resource")
	// ErrSelfFollow indicates a user attempted to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrInactiveTarget indicates the target of the action is deactivated.
	ErrInactiveTarget = errors.New("target is not active")
)

// RequireOwner ensures the actor owns the resource identified by ownerID.
func RequireOwner(actorID, ownerID string) error {
	if actorID == "" || actorID != ownerID {
		return ErrForbidden
	}
	return nil
}

// RequireDistinct rejects follow actions where follower and followee are the
// same user.
func RequireDistinct(followerID, followingID string) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	return nil
}

// RequireActiveUser ensures follow and engagement targets are active accounts.
func RequireActiveUser(u models.User) error {
	if !u.IsActive {
		return ErrInactiveTarget
	}
	return nil
}

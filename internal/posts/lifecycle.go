package posts

import (
	"errors"
	"time"

	"github.com/qwiksocial/backend/internal/models"
)

// DefaultTTL is how long a temporary post stays visible when the creator
// does not supply an explicit expiry.
const DefaultTTL = 24 * time.Hour

var (
	// ErrNotTemporary indicates a conversion was attempted on a post that is
	// already permanent.
	ErrNotTemporary = errors.New("post is not temporary")
	// ErrInvalidMediaType indicates an unknown media type value.
	ErrInvalidMediaType = errors.New("invalid media type")
	// ErrInvalidPostType indicates an unknown post type value.
	ErrInvalidPostType = errors.New("invalid post type")
)

// ResolveExpiry decides the expiry timestamp for a new post. Temporary posts
// without an explicit expiry default to now + DefaultTTL; permanent posts
// never carry one, regardless of what the caller supplied.
func ResolveExpiry(postType string, explicit *time.Time, now time.Time) *time.Time {
	if postType != models.PostTypeTemporary {
		return nil
	}
	if explicit != nil {
		t := explicit.UTC()
		return &t
	}
	t := now.Add(DefaultTTL)
	return &t
}

// Visible reports whether a post may be served to clients. The stored
// is_active flag alone is never sufficient: expiry is evaluated lazily here
// on every read rather than swept by a background job, so an expired
// temporary post whose row still says active must not leak out.
func Visible(p models.Post, now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.PostType == models.PostTypePermanent {
		return true
	}
	return p.ExpiresAt != nil && p.ExpiresAt.After(now)
}

// Convert transitions a temporary post to permanent in place. The transition
// is one-directional: permanent posts can never become temporary again.
func Convert(p *models.Post, now time.Time) error {
	if p.PostType != models.PostTypeTemporary {
		return ErrNotTemporary
	}
	converted := now.UTC()
	p.PostType = models.PostTypePermanent
	p.ExpiresAt = nil
	p.ConvertedAt = &converted
	p.UpdatedAt = converted
	return nil
}

// ValidMediaType reports whether the value is one of image, video or text.
func ValidMediaType(v string) bool {
	switch v {
	case models.MediaTypeImage, models.MediaTypeVideo, models.MediaTypeText:
		return true
	}
	return false
}

// ValidPostType reports whether the value is temporary or permanent.
func ValidPostType(v string) bool {
	return v == models.PostTypeTemporary || v == models.PostTypePermanent
}

package models

import "time"

// User represents an account within the Qwik platform.
type User struct {
	ID           string
	Username     string
	Email        string
	Password     string
	ProfileImage string
	Bio          string
	Role         string
	IsActive     bool
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Follow is a directed edge in the social graph.
type Follow struct {
	FollowerID  string
	FollowingID string
	CreatedAt   time.Time
}

// Post is a piece of content shared by a user. Temporary posts carry an
// expiry timestamp; converting one to permanent clears it.
type Post struct {
	ID          string
	UserID      string
	Caption     string
	MediaURL    string
	MediaType   string
	PostType    string
	IsActive    bool
	ExpiresAt   *time.Time
	ConvertedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeText  = "text"

	PostTypeTemporary = "temporary"
	PostTypePermanent = "permanent"
)

// Like records that a user liked a post. At most one row exists per
// (user, post) pair; liking again removes it.
type Like struct {
	UserID    string
	PostID    string
	CreatedAt time.Time
}

// Comment is a user's remark on a post.
type Comment struct {
	ID        string
	UserID    string
	PostID    string
	Text      string
	CreatedAt time.Time
}

// FeedItem is a post enriched with engagement aggregates for list views.
// Counts are computed from the like and comment rows at read time.
type FeedItem struct {
	Post
	LikesCount    int
	CommentsCount int
	HasLiked      bool
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

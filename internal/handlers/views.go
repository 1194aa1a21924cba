package handlers

import (
	"time"

	"github.com/qwiksocial/backend/internal/models"
	"github.com/qwiksocial/backend/internal/repositories"
)

// View models are explicit per-endpoint structs; entity fields never reach
// the wire without passing through one of these.

type userView struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newUserView(u models.User) userView {
	return userView{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
		Role:         u.Role,
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type profileView struct {
	userView
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
}

func newProfileView(u models.User, counts repositories.FollowCounts) profileView {
	return profileView{
		userView:       newUserView(u),
		FollowersCount: counts.Followers,
		FollowingCount: counts.Following,
	}
}

type userDetailView struct {
	profileView
	IsFollowing bool `json:"is_following"`
}

type postView struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Caption       string     `json:"caption,omitempty"`
	MediaURL      string     `json:"media_url,omitempty"`
	MediaType     string     `json:"media_type"`
	PostType      string     `json:"post_type"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	ConvertedAt   *time.Time `json:"converted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LikesCount    int        `json:"likes_count"`
	CommentsCount int        `json:"comments_count"`
	HasLiked      bool       `json:"has_liked"`
}

func newPostView(item models.FeedItem) postView {
	return postView{
		ID:            item.ID,
		UserID:        item.UserID,
		Caption:       item.Caption,
		MediaURL:      item.MediaURL,
		MediaType:     item.MediaType,
		PostType:      item.PostType,
		IsActive:      item.IsActive,
		ExpiresAt:     item.ExpiresAt,
		ConvertedAt:   item.ConvertedAt,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		LikesCount:    item.LikesCount,
		CommentsCount: item.CommentsCount,
		HasLiked:      item.HasLiked,
	}
}

func newPostViews(items []models.FeedItem) []postView {
	views := make([]postView, 0, len(items))
	for _, item := range items {
		views = append(views, newPostView(item))
	}
	return views
}

type likeView struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type commentView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentView(c models.Comment) commentView {
	return commentView{
		ID:        c.ID,
		UserID:    c.UserID,
		PostID:    c.PostID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func newCommentViews(comments []models.Comment) []commentView {
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, newCommentView(c))
	}
	return views
}

type tokensView struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func newTokensView(t models.SessionTokens) tokensView {
	return tokensView{
		AccessToken:      t.AccessToken,
		AccessExpiresAt:  t.AccessExpiresAt,
		RefreshToken:     t.RefreshToken,
		RefreshExpiresAt: t.RefreshExpiresAt,
	}
}

type authView struct {
	User   userView   `json:"user"`
	Tokens tokensView `json:"tokens"`
}

package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/qwiksocial/backend/internal/auth"
	"github.com/qwiksocial/backend/internal/models"
	"github.com/qwiksocial/backend/internal/posts"
	"github.com/qwiksocial/backend/internal/repositories"
)

// In-memory stores backing the handler tests. They honour the same
// contracts as the Postgres implementations: sentinel errors, the post
// visibility predicate and the feed ordering rules.

type memUserStore struct {
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *memUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

type memFollowStore struct {
	edges map[string]models.Follow
}

func newMemFollowStore() *memFollowStore {
	return &memFollowStore{edges: make(map[string]models.Follow)}
}

func followKey(followerID, followingID string) string {
	return followerID + "|" + followingID
}

func (s *memFollowStore) Create(_ context.Context, follow models.Follow) error {
	key := followKey(follow.FollowerID, follow.FollowingID)
	if _, ok := s.edges[key]; ok {
		return repositories.ErrConflict
	}
	s.edges[key] = follow
	return nil
}

func (s *memFollowStore) Delete(_ context.Context, followerID, followingID string) error {
	key := followKey(followerID, followingID)
	if _, ok := s.edges[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.edges, key)
	return nil
}

func (s *memFollowStore) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	_, ok := s.edges[followKey(followerID, followingID)]
	return ok, nil
}

func (s *memFollowStore) Counts(_ context.Context, userID string) (repositories.FollowCounts, error) {
	var counts repositories.FollowCounts
	for _, edge := range s.edges {
		if edge.FollowingID == userID {
			counts.Followers++
		}
		if edge.FollowerID == userID {
			counts.Following++
		}
	}
	return counts, nil
}

type memLikeStore struct {
	likes map[string]map[string]bool
}

func newMemLikeStore() *memLikeStore {
	return &memLikeStore{likes: make(map[string]map[string]bool)}
}

func (s *memLikeStore) Toggle(_ context.Context, userID, postID string) (bool, int, error) {
	byUser, ok := s.likes[postID]
	if !ok {
		byUser = make(map[string]bool)
		s.likes[postID] = byUser
	}
	liked := !byUser[userID]
	if liked {
		byUser[userID] = true
	} else {
		delete(byUser, userID)
	}
	return liked, len(byUser), nil
}

func (s *memLikeStore) count(postID string) int {
	return len(s.likes[postID])
}

func (s *memLikeStore) has(userID, postID string) bool {
	return s.likes[postID][userID]
}

type memCommentStore struct {
	comments map[string]models.Comment
}

func newMemCommentStore() *memCommentStore {
	return &memCommentStore{comments: make(map[string]models.Comment)}
}

func (s *memCommentStore) Create(_ context.Context, comment models.Comment) error {
	if _, ok := s.comments[comment.ID]; ok {
		return repositories.ErrConflict
	}
	s.comments[comment.ID] = comment
	return nil
}

func (s *memCommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *memCommentStore) ListForPost(_ context.Context, postID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range s.comments {
		if comment.PostID == postID {
			out = append(out, comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memCommentStore) Update(_ context.Context, comment models.Comment) error {
	if _, ok := s.comments[comment.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.comments[comment.ID] = comment
	return nil
}

func (s *memCommentStore) Delete(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *memCommentStore) countForPost(postID string) int {
	n := 0
	for _, comment := range s.comments {
		if comment.PostID == postID {
			n++
		}
	}
	return n
}

type memPostStore struct {
	posts    map[string]models.Post
	likes    *memLikeStore
	comments *memCommentStore
	follows  *memFollowStore
	now      func() time.Time
}

func (s *memPostStore) Create(_ context.Context, post models.Post) error {
	if _, ok := s.posts[post.ID]; ok {
		return repositories.ErrConflict
	}
	s.posts[post.ID] = post
	return nil
}

func (s *memPostStore) FindByID(_ context.Context, id string) (models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, repositories.ErrNotFound
	}
	return post, nil
}

func (s *memPostStore) FindVisible(_ context.Context, id, viewerID string) (models.FeedItem, error) {
	post, ok := s.posts[id]
	if !ok || !posts.Visible(post, s.now()) {
		return models.FeedItem{}, repositories.ErrNotFound
	}
	return s.item(post, viewerID), nil
}

func (s *memPostStore) Update(_ context.Context, post models.Post) error {
	if _, ok := s.posts[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.posts[post.ID] = post
	return nil
}

func (s *memPostStore) Delete(_ context.Context, id string) error {
	if _, ok := s.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *memPostStore) ListFeed(ctx context.Context, q repositories.FeedQuery) ([]models.FeedItem, error) {
	now := s.now()
	var items []models.FeedItem
	for _, post := range s.posts {
		if !posts.Visible(post, now) {
			continue
		}
		if q.Mode == repositories.FeedModeFollowing && post.UserID != q.ViewerID {
			follows, err := s.follows.Exists(ctx, q.ViewerID, post.UserID)
			if err != nil {
				return nil, err
			}
			if !follows {
				continue
			}
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(post.Caption), strings.ToLower(q.Search)) {
			continue
		}
		items = append(items, s.item(post, q.ViewerID))
	}

	sort.Slice(items, func(i, j int) bool {
		if q.Mode == repositories.FeedModeTrending {
			if items[i].LikesCount != items[j].LikesCount {
				return items[i].LikesCount > items[j].LikesCount
			}
			if items[i].CommentsCount != items[j].CommentsCount {
				return items[i].CommentsCount > items[j].CommentsCount
			}
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return items, nil
}

func (s *memPostStore) item(post models.Post, viewerID string) models.FeedItem {
	return models.FeedItem{
		Post:          post,
		LikesCount:    s.likes.count(post.ID),
		CommentsCount: s.comments.countForPost(post.ID),
		HasLiked:      s.likes.has(viewerID, post.ID),
	}
}

// memStores wires the fakes together the way buildDependencies wires the
// Postgres repositories.
type memStores struct {
	users    *memUserStore
	follows  *memFollowStore
	likes    *memLikeStore
	comments *memCommentStore
	posts    *memPostStore
}

func newMemStores(now func() time.Time) *memStores {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	s := &memStores{
		users:    newMemUserStore(),
		follows:  newMemFollowStore(),
		likes:    newMemLikeStore(),
		comments: newMemCommentStore(),
	}
	s.posts = &memPostStore{
		posts:    make(map[string]models.Post),
		likes:    s.likes,
		comments: s.comments,
		follows:  s.follows,
		now:      now,
	}
	return s
}

func authedRequest(method, target string, body io.Reader, actorID string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	actor := auth.Actor{ID: actorID, Role: models.RoleUser}
	return req.WithContext(auth.WithActor(req.Context(), actor))
}

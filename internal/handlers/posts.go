package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qwiksocial/backend/internal/auth"
	"github.com/qwiksocial/backend/internal/authz"
	"github.com/qwiksocial/backend/internal/logging"
	"github.com/qwiksocial/backend/internal/models"
	"github.com/qwiksocial/backend/internal/posts"
	"github.com/qwiksocial/backend/internal/repositories"
	"github.com/qwiksocial/backend/internal/storage"
)

// maxMediaUpload bounds the multipart form kept in memory during uploads.
const maxMediaUpload = 32 << 20

// PostHandler implements post lifecycle, feed and engagement endpoints.
type PostHandler struct {
	Posts    PostStore
	Likes    LikeStore
	Comments CommentStore
	Media    MediaStore
	NowFunc  func() time.Time
}

type createPostRequest struct {
	Caption   string     `json:"caption" validate:"max=2200"`
	MediaURL  string     `json:"media_url" validate:"omitempty,url"`
	MediaType string     `json:"media_type" validate:"omitempty,oneof=image video text"`
	PostType  string     `json:"post_type" validate:"omitempty,oneof=temporary permanent"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Collection handles GET and POST /api/v1/posts.
func (h PostHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h PostHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Posts == nil {
		logger.Error("post store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "post services unavailable"})
		return
	}

	query := r.URL.Query()
	q := repositories.FeedQuery{
		ViewerID: actor.ID,
		Mode:     repositories.FeedModeDefault,
		Search:   strings.TrimSpace(query.Get("search")),
	}
	// Trending wins when both switches are present.
	if query.Has("trending") {
		q.Mode = repositories.FeedModeTrending
	} else if query.Has("feed") {
		q.Mode = repositories.FeedModeFollowing
	}

	items, err := h.Posts.ListFeed(ctx, q)
	if err != nil {
		logger.Error("feed query failed", "error", err, "mode", string(q.Mode))
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load feed"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]postView{"posts": newPostViews(items)})
}

func (h PostHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Posts == nil {
		logger.Error("post store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "post services unavailable"})
		return
	}

	var req createPostRequest
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType == "multipart/form-data" {
		// The media bytes are uploaded to the object store before any row is
		// written, so a failed upload leaves no partial post behind.
		uploaded, err := h.decodeMultipart(r, &req)
		if err != nil {
			if errors.Is(err, errMalformedUpload) {
				logger.Warn("invalid multipart post payload", "error", err)
				respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			respondStoreError(ctx, w, err, "media upload failed")
			return
		}
		if uploaded != "" {
			req.MediaURL = uploaded
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid post payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	if req.MediaType == "" {
		req.MediaType = models.MediaTypeText
	}
	if req.PostType == "" {
		req.PostType = models.PostTypeTemporary
	}
	req.Caption = strings.TrimSpace(req.Caption)

	if err := validate.Struct(req); err != nil {
		logger.Warn("post validation failed", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid post fields"})
		return
	}

	now := h.now()
	post := models.Post{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		Caption:   req.Caption,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		PostType:  req.PostType,
		IsActive:  true,
		ExpiresAt: posts.ResolveExpiry(req.PostType, req.ExpiresAt, now),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		logger.Error("failed to create post", "error", err, "userId", actor.ID)
		respondStoreError(ctx, w, err, "failed to create post")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newPostView(models.FeedItem{Post: post}))
}

// errMalformedUpload marks multipart payloads the client got wrong, as
// opposed to object-store failures.
var errMalformedUpload = errors.New("malformed upload")

// decodeMultipart fills req from form fields and, when a media part is
// attached, streams it to the object store and returns its public URL.
func (h PostHandler) decodeMultipart(r *http.Request, req *createPostRequest) (string, error) {
	if err := r.ParseMultipartForm(maxMediaUpload); err != nil {
		return "", fmt.Errorf("%w: parse form: %v", errMalformedUpload, err)
	}

	req.Caption = r.FormValue("caption")
	req.MediaType = r.FormValue("media_type")
	req.PostType = r.FormValue("post_type")
	if raw := strings.TrimSpace(r.FormValue("expires_at")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return "", fmt.Errorf("%w: parse expires_at: %v", errMalformedUpload, err)
		}
		req.ExpiresAt = &t
	}

	file, header, err := r.FormFile("media")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read media part: %v", errMalformedUpload, err)
	}
	defer file.Close()

	if h.Media == nil {
		return "", storage.ErrUnavailable
	}

	key := fmt.Sprintf("media/%s%s", uuid.NewString(), path.Ext(header.Filename))
	return h.Media.Save(r.Context(), key, header.Header.Get("Content-Type"), file)
}

// Detail handles GET and DELETE /api/v1/posts/{id}.
func (h PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Posts == nil {
		logging.FromContext(ctx).Error("post store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "post services unavailable"})
		return
	}

	postID := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		item, err := h.Posts.FindVisible(ctx, postID, actor.ID)
		if err != nil {
			respondStoreError(ctx, w, err, "post not found")
			return
		}
		respondJSON(ctx, w, http.StatusOK, newPostView(item))

	case http.MethodDelete:
		post, err := h.Posts.FindByID(ctx, postID)
		if err != nil {
			respondStoreError(ctx, w, err, "post not found")
			return
		}
		if err := authz.RequireOwner(actor.ID, post.UserID); err != nil {
			respondStoreError(ctx, w, err, "you do not have permission to delete this post")
			return
		}
		if err := h.Posts.Delete(ctx, postID); err != nil {
			respondStoreError(ctx, w, err, "failed to delete post")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Like handles POST /api/v1/posts/{id}/like. Repeating the request flips
// the like off again; the response always carries the resulting count.
func (h PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Posts == nil || h.Likes == nil {
		logging.FromContext(ctx).Error("engagement dependencies unavailable", "hasPosts", h.Posts != nil, "hasLikes", h.Likes != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "engagement services unavailable"})
		return
	}

	item, err := h.Posts.FindVisible(ctx, r.PathValue("id"), actor.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "post not found")
		return
	}

	liked, count, err := h.Likes.Toggle(ctx, actor.ID, item.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "failed to toggle like")
		return
	}

	respondJSON(ctx, w, http.StatusOK, likeView{Liked: liked, LikesCount: count})
}

// Convert handles POST /api/v1/posts/{id}/convert, promoting a temporary
// post to permanent. The transition never runs in reverse.
func (h PostHandler) Convert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Posts == nil {
		logging.FromContext(ctx).Error("post store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "post services unavailable"})
		return
	}

	post, err := h.Posts.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondStoreError(ctx, w, err, "post not found")
		return
	}

	if err := authz.RequireOwner(actor.ID, post.UserID); err != nil {
		respondStoreError(ctx, w, err, "you do not have permission to convert this post")
		return
	}

	if err := posts.Convert(&post, h.now()); err != nil {
		respondStoreError(ctx, w, err, "post is already permanent")
		return
	}

	if err := h.Posts.Update(ctx, post); err != nil {
		respondStoreError(ctx, w, err, "failed to convert post")
		return
	}

	item, err := h.Posts.FindVisible(ctx, post.ID, actor.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "post not found")
		return
	}

	respondJSON(ctx, w, http.StatusOK, newPostView(item))
}

// PostComments handles GET /api/v1/posts/{id}/comments.
func (h PostHandler) PostComments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Posts == nil || h.Comments == nil {
		logging.FromContext(ctx).Error("engagement dependencies unavailable", "hasPosts", h.Posts != nil, "hasComments", h.Comments != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "engagement services unavailable"})
		return
	}

	item, err := h.Posts.FindVisible(ctx, r.PathValue("id"), actor.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "post not found")
		return
	}

	comments, err := h.Comments.ListForPost(ctx, item.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "failed to load comments")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]commentView{"comments": newCommentViews(comments)})
}

func (h PostHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

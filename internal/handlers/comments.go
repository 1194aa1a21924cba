package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qwiksocial/backend/internal/auth"
	"github.com/qwiksocial/backend/internal/authz"
	"github.com/qwiksocial/backend/internal/logging"
	"github.com/qwiksocial/backend/internal/models"
)

// CommentHandler implements comment CRUD endpoints. Every path resolves the
// comment's post through the visibility predicate first, so comments on
// expired or deactivated posts are as invisible as the posts themselves.
type CommentHandler struct {
	Comments CommentStore
	Posts    PostStore
	NowFunc  func() time.Time
}

type createCommentRequest struct {
	PostID string `json:"post_id" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

type updateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// Collection handles GET and POST /api/v1/comments.
func (h CommentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h CommentHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Comments == nil || h.Posts == nil {
		logging.FromContext(ctx).Error("comment dependencies unavailable", "hasComments", h.Comments != nil, "hasPosts", h.Posts != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "comment services unavailable"})
		return
	}

	postID := strings.TrimSpace(r.URL.Query().Get("post"))
	if postID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "post query parameter is required"})
		return
	}

	item, err := h.Posts.FindVisible(ctx, postID, actor.ID)
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

func (h CommentHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Comments == nil || h.Posts == nil {
		logger.Error("comment dependencies unavailable", "hasComments", h.Comments != nil, "hasPosts", h.Posts != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "comment services unavailable"})
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid comment payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if err := validate.Struct(req); err != nil {
		logger.Warn("comment validation failed", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "post_id and non-empty text are required"})
		return
	}

	item, err := h.Posts.FindVisible(ctx, req.PostID, actor.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "post not found")
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		PostID:    item.ID,
		Text:      req.Text,
		CreatedAt: h.now(),
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondStoreError(ctx, w, err, "failed to create comment")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newCommentView(comment))
}

// Detail handles GET, PUT and DELETE /api/v1/comments/{id}.
func (h CommentHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Comments == nil || h.Posts == nil {
		logger.Error("comment dependencies unavailable", "hasComments", h.Comments != nil, "hasPosts", h.Posts != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "comment services unavailable"})
		return
	}

	comment, err := h.Comments.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondStoreError(ctx, w, err, "comment not found")
		return
	}

	if _, err := h.Posts.FindVisible(ctx, comment.PostID, actor.ID); err != nil {
		respondStoreError(ctx, w, err, "comment not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(ctx, w, http.StatusOK, newCommentView(comment))

	case http.MethodPut:
		if err := authz.RequireOwner(actor.ID, comment.UserID); err != nil {
			respondStoreError(ctx, w, err, "you do not have permission to edit this comment")
			return
		}

		var req updateCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid comment payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		req.Text = strings.TrimSpace(req.Text)
		if err := validate.Struct(req); err != nil {
			logger.Warn("comment validation failed", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "non-empty text is required"})
			return
		}

		comment.Text = req.Text
		if err := h.Comments.Update(ctx, comment); err != nil {
			respondStoreError(ctx, w, err, "failed to update comment")
			return
		}
		respondJSON(ctx, w, http.StatusOK, newCommentView(comment))

	case http.MethodDelete:
		if err := authz.RequireOwner(actor.ID, comment.UserID); err != nil {
			respondStoreError(ctx, w, err, "you do not have permission to delete this comment")
			return
		}
		if err := h.Comments.Delete(ctx, comment.ID); err != nil {
			respondStoreError(ctx, w, err, "failed to delete comment")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

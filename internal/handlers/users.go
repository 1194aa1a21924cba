package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/qwiksocial/backend/internal/auth"
	"github.com/qwiksocial/backend/internal/authz"
	"github.com/qwiksocial/backend/internal/logging"
	"github.com/qwiksocial/backend/internal/models"
)

// UserHandler implements profile and follow endpoints.
type UserHandler struct {
	Users   UserStore
	Follows FollowStore
	NowFunc func() time.Time
}

type updateProfileRequest struct {
	Username     *string `json:"username" validate:"omitempty,min=3,max=150"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

// Me handles GET and PUT /api/v1/profile/me.
func (h UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Users == nil || h.Follows == nil {
		logger.Error("profile dependencies unavailable", "hasUsers", h.Users != nil, "hasFollows", h.Follows != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "profile services unavailable"})
		return
	}

	user, err := h.Users.FindByID(ctx, actor.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "profile not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		counts, err := h.Follows.Counts(ctx, user.ID)
		if err != nil {
			respondStoreError(ctx, w, err, "failed to load profile")
			return
		}
		respondJSON(ctx, w, http.StatusOK, newProfileView(user, counts))

	case http.MethodPut:
		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid profile payload", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("profile validation failed", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid profile fields"})
			return
		}

		// Email, role and flags are read-only here; only the fields the
		// payload carries change.
		if req.Username != nil {
			user.Username = strings.TrimSpace(*req.Username)
		}
		if req.Bio != nil {
			user.Bio = strings.TrimSpace(*req.Bio)
		}
		if req.ProfileImage != nil {
			user.ProfileImage = strings.TrimSpace(*req.ProfileImage)
		}
		user.UpdatedAt = h.now()

		if err := h.Users.Update(ctx, user); err != nil {
			respondStoreError(ctx, w, err, "username already taken")
			return
		}

		counts, err := h.Follows.Counts(ctx, user.ID)
		if err != nil {
			respondStoreError(ctx, w, err, "failed to load profile")
			return
		}
		respondJSON(ctx, w, http.StatusOK, newProfileView(user, counts))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Detail handles GET /api/v1/users/{id}. Deactivated accounts surface as
// absent rather than revealing their state.
func (h UserHandler) Detail(w http.ResponseWriter, r *http.Request) {
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

	if h.Users == nil || h.Follows == nil {
		logging.FromContext(ctx).Error("profile dependencies unavailable", "hasUsers", h.Users != nil, "hasFollows", h.Follows != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "profile services unavailable"})
		return
	}

	user, err := h.Users.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}
	if err := authz.RequireActiveUser(user); err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}

	counts, err := h.Follows.Counts(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "failed to load user")
		return
	}

	isFollowing, err := h.Follows.Exists(ctx, actor.ID, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "failed to load user")
		return
	}

	respondJSON(ctx, w, http.StatusOK, userDetailView{
		profileView: newProfileView(user, counts),
		IsFollowing: isFollowing,
	})
}

// Follow handles POST and DELETE /api/v1/users/{id}/follow.
func (h UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Users == nil || h.Follows == nil {
		logging.FromContext(ctx).Error("follow dependencies unavailable", "hasUsers", h.Users != nil, "hasFollows", h.Follows != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "follow services unavailable"})
		return
	}

	targetID := r.PathValue("id")

	if err := authz.RequireDistinct(actor.ID, targetID); err != nil {
		respondStoreError(ctx, w, err, "cannot follow yourself")
		return
	}

	target, err := h.Users.FindByID(ctx, targetID)
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}
	if err := authz.RequireActiveUser(target); err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}

	switch r.Method {
	case http.MethodPost:
		follow := models.Follow{
			FollowerID:  actor.ID,
			FollowingID: target.ID,
			CreatedAt:   h.now(),
		}
		if err := h.Follows.Create(ctx, follow); err != nil {
			respondStoreError(ctx, w, err, "already following")
			return
		}
		respondJSON(ctx, w, http.StatusCreated, map[string]string{"message": "now following " + target.Username})

	case http.MethodDelete:
		if err := h.Follows.Delete(ctx, actor.ID, target.ID); err != nil {
			respondStoreError(ctx, w, err, "not following")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

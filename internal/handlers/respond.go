package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qwiksocial/backend/internal/authz"
	"github.com/qwiksocial/backend/internal/logging"
	"github.com/qwiksocial/backend/internal/posts"
	"github.com/qwiksocial/backend/internal/repositories"
	"github.com/qwiksocial/backend/internal/storage"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondStoreError maps the sentinel error taxonomy onto HTTP status codes.
// Visibility is folded into existence: expired or inactive resources surface
// as plain 404s.
func respondStoreError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, authz.ErrInactiveTarget):
		status = http.StatusNotFound
	case errors.Is(err, repositories.ErrConflict), errors.Is(err, posts.ErrNotTemporary):
		status = http.StatusConflict
	case errors.Is(err, authz.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, authz.ErrSelfFollow):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).Error("request failed", "error", err)
	}

	respondJSON(ctx, w, status, map[string]string{"error": msg})
}

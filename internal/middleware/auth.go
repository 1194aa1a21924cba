package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/qwiksocial/backend/internal/auth"
	"github.com/qwiksocial/backend/internal/logging"
)

// TokenVerifier validates an access token and resolves its actor.
type TokenVerifier interface {
	Verify(token string) (auth.Actor, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// resolved actor on the context for downstream handlers.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, r, "missing bearer token")
				return
			}

			actor, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, r, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	logging.FromContext(r.Context()).Warn("request unauthenticated", "reason", msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

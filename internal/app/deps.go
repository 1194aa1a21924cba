package app

import (
	"context"
	"time"

	"github.com/qwiksocial/backend/internal/auth"
	"github.com/qwiksocial/backend/internal/config"
	"github.com/qwiksocial/backend/internal/db"
	"github.com/qwiksocial/backend/internal/handlers"
	"github.com/qwiksocial/backend/internal/middleware"
	"github.com/qwiksocial/backend/internal/repositories"
	"github.com/qwiksocial/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The token signer doubles as the verifier handed to the auth
// middleware.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, *auth.TokenSigner, error) {
	signer, err := auth.NewTokenSigner(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	users := repositories.NewPostgresUserRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	var media handlers.MediaStore
	if cfg.ObjectStore.Bucket != "" {
		s3Store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, nil, err
		}
		media = s3Store
	}

	deps := handlers.Dependencies{
		Users:       users,
		Sessions:    auth.NewManager(cfg.AccessTTL, cfg.RefreshTTL, signer, sessionStore, users),
		Posts:       repositories.NewPostgresPostRepository(pool),
		Likes:       repositories.NewPostgresLikeRepository(pool),
		Comments:    repositories.NewPostgresCommentRepository(pool),
		Follows:     repositories.NewPostgresFollowRepository(pool),
		Media:       media,
		AuthLimiter: middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
	}

	return deps, signer, nil
}

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qwiksocial/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		JWTSecret:   "test-secret",
		JWTIssuer:   "qwik-test",
		ObjectStore: config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"},
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, signer, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signer == nil {
		t.Fatal("expected token signer to be configured")
	}

	if deps.Users == nil {
		t.Fatal("expected user repository to be configured")
	}
	if deps.Sessions == nil {
		t.Fatal("expected session manager to be configured")
	}
	if deps.Posts == nil {
		t.Fatal("expected post repository to be configured")
	}
	if deps.Likes == nil {
		t.Fatal("expected like repository to be configured")
	}
	if deps.Comments == nil {
		t.Fatal("expected comment repository to be configured")
	}
	if deps.Follows == nil {
		t.Fatal("expected follow repository to be configured")
	}
	if deps.Media == nil {
		t.Fatal("expected media store to be configured")
	}
	if deps.AuthLimiter == nil {
		t.Fatal("expected auth rate limiter to be configured")
	}
}

func TestBuildDependenciesWithoutObjectStore(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret", JWTIssuer: "qwik-test"}

	deps, _, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps.Media != nil {
		t.Fatal("expected media store to be absent when no bucket is configured")
	}
}

func TestBuildDependenciesRequiresJWTSecret(t *testing.T) {
	if _, _, err := buildDependencies(context.Background(), fakePool{}, config.Config{}); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/qwiksocial/backend/internal/models"
)

type stubDirectory struct {
	users map[string]models.User
	err   error
}

func (d stubDirectory) FindByID(_ context.Context, id string) (models.User, error) {
	if d.err != nil {
		return models.User{}, d.err
	}
	return d.users[id], nil
}

func newTestManager(t *testing.T, accessTTL, refreshTTL time.Duration) (*Manager, *InMemorySessionStore) {
	t.Helper()
	signer, err := NewTokenSigner("test-secret", "qwik-test")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	store := NewInMemorySessionStore()
	directory := stubDirectory{users: map[string]models.User{
		"user-1": {ID: "user-1", Role: models.RoleUser, IsVerified: true, IsActive: true},
	}}
	return NewManager(accessTTL, refreshTTL, signer, store, directory), store
}

func TestManagerIssueAndRefresh(t *testing.T) {
	manager, store := newTestManager(t, time.Minute, time.Hour)

	tokens, err := manager.Issue(context.Background(), models.User{ID: "user-1", Role: models.RoleUser, IsVerified: true})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected non-empty tokens: %+v", tokens)
	}

	refreshed, err := manager.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == tokens.RefreshToken {
		t.Fatal("expected new refresh token")
	}
	if store.Has(tokens.RefreshToken) {
		t.Fatal("old token should have been removed")
	}
	if !store.Has(refreshed.RefreshToken) {
		t.Fatal("new token should have been stored")
	}
}

func TestManagerIssueValidation(t *testing.T) {
	manager, _ := newTestManager(t, time.Minute, time.Hour)
	if _, err := manager.Issue(context.Background(), models.User{}); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestManagerRefreshFailures(t *testing.T) {
	manager, store := newTestManager(t, time.Minute, time.Hour)
	ctx := context.Background()

	if _, err := manager.Refresh(ctx, ""); err != ErrSessionNotFound {
		t.Fatalf("expected session not found got %v", err)
	}

	expired := Session{
		RefreshToken: "stale-token",
		UserID:       "user-1",
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
	}
	if err := store.Save(ctx, expired); err != nil {
		t.Fatalf("save expired session: %v", err)
	}

	if _, err := manager.Refresh(ctx, expired.RefreshToken); err != ErrRefreshTokenExpired {
		t.Fatalf("expected refresh expired got %v", err)
	}
	if store.Has(expired.RefreshToken) {
		t.Fatal("expired token should have been consumed")
	}

	tokens, err := manager.Issue(ctx, models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	manager.Revoke(ctx, tokens.RefreshToken)
	if _, err := manager.Refresh(ctx, tokens.RefreshToken); err != ErrSessionNotFound {
		t.Fatalf("expected session not found after revoke got %v", err)
	}
}

func TestManagerRefreshCarriesCurrentClaims(t *testing.T) {
	signer, err := NewTokenSigner("test-secret", "qwik-test")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	store := NewInMemorySessionStore()
	directory := stubDirectory{users: map[string]models.User{
		"user-1": {ID: "user-1", Role: models.RoleAdmin, IsVerified: true},
	}}
	manager := NewManager(time.Minute, time.Hour, signer, store, directory)

	// The user was plain at issue time; the directory says admin now, and
	// the refreshed access token must reflect that.
	tokens, err := manager.Issue(context.Background(), models.User{ID: "user-1", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	refreshed, err := manager.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	actor, err := signer.Verify(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("verify refreshed access token: %v", err)
	}
	if actor.ID != "user-1" || actor.Role != models.RoleAdmin || !actor.Verified {
		t.Fatalf("unexpected actor from refreshed token: %+v", actor)
	}
}

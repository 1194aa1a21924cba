package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenSignerRoundTrip(t *testing.T) {
	signer, err := NewTokenSigner("test-secret", "qwik-test")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	now := time.Now().UTC()
	token, err := signer.Sign("user-1", "admin", true, now, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	actor, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if actor.ID != "user-1" || actor.Role != "admin" || !actor.Verified {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if !actor.IsAdmin() {
		t.Fatal("expected actor to be admin")
	}
}

func TestTokenSignerRejectsBadTokens(t *testing.T) {
	signer, err := NewTokenSigner("test-secret", "qwik-test")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	now := time.Now().UTC()

	expired, err := signer.Sign("user-1", "user", false, now.Add(-2*time.Minute), now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	if _, err := signer.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	other, err := NewTokenSigner("different-secret", "qwik-test")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	forged, err := other.Sign("user-1", "admin", true, now, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("sign with other secret: %v", err)
	}
	if _, err := signer.Verify(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	if _, err := signer.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestNewTokenSignerRequiresSecret(t *testing.T) {
	if _, err := NewTokenSigner("", "qwik-test"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

package authz

import (
	"errors"
	"testing"

	"github.com/qwiksocial/backend/internal/models"
)

func TestRequireOwner(t *testing.T) {
	if err := RequireOwner("user-1", "user-1"); err != nil {
		t.Fatalf("expected owner to pass, got %v", err)
	}
	if err := RequireOwner("user-1", "user-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := RequireOwner("", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for empty actor, got %v", err)
	}
}

func TestRequireDistinct(t *testing.T) {
	if err := RequireDistinct("user-1", "user-2"); err != nil {
		t.Fatalf("expected distinct users to pass, got %v", err)
	}
	if err := RequireDistinct("user-1", "user-1"); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestRequireActiveUser(t *testing.T) {
	if err := RequireActiveUser(models.User{ID: "user-1", IsActive: true}); err != nil {
		t.Fatalf("expected active user to pass, got %v", err)
	}
	if err := RequireActiveUser(models.User{ID: "user-1"}); !errors.Is(err, ErrInactiveTarget) {
		t.Fatalf("expected ErrInactiveTarget, got %v", err)
	}
}

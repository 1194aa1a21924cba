package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qwiksocial/backend/internal/models"
)

func seedActiveUser(stores *memStores, id, username string) models.User {
	user := models.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	stores.users.users[id] = user
	return user
}

func TestUserHandlerMe(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	seedActiveUser(stores, "user-1", "alice")
	seedActiveUser(stores, "user-2", "bob")
	seedActiveUser(stores, "user-3", "carol")

	ctx := context.Background()
	if err := stores.follows.Create(ctx, models.Follow{FollowerID: "user-2", FollowingID: "user-1", CreatedAt: testNow}); err != nil {
		t.Fatalf("seed follow: %v", err)
	}
	if err := stores.follows.Create(ctx, models.Follow{FollowerID: "user-3", FollowingID: "user-1", CreatedAt: testNow}); err != nil {
		t.Fatalf("seed follow: %v", err)
	}
	if err := stores.follows.Create(ctx, models.Follow{FollowerID: "user-1", FollowingID: "user-2", CreatedAt: testNow}); err != nil {
		t.Fatalf("seed follow: %v", err)
	}

	req := authedRequest(http.MethodGet, "/api/v1/profile/me", nil, "user-1")
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		FollowersCount int    `json:"followers_count"`
		FollowingCount int    `json:"following_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "user-1" || resp.Username != "alice" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
	if resp.FollowersCount != 2 || resp.FollowingCount != 1 {
		t.Fatalf("expected 2 followers and 1 following, got %+v", resp)
	}
}

func TestUserHandlerMeUpdate(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	seedActiveUser(stores, "user-1", "alice")

	body := bytes.NewBufferString(`{"username":"alice_v2","bio":"hello there"}`)
	req := authedRequest(http.MethodPut, "/api/v1/profile/me", body, "user-1")
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	stored := stores.users.users["user-1"]
	if stored.Username != "alice_v2" || stored.Bio != "hello there" {
		t.Fatalf("unexpected stored user: %+v", stored)
	}
	if stored.Email != "alice@example.com" {
		t.Fatal("expected email to be read-only")
	}
	if !stored.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected updated_at %v, got %v", testNow, stored.UpdatedAt)
	}
}

func TestUserHandlerMeUpdateUsernameConflict(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	seedActiveUser(stores, "user-1", "alice")
	seedActiveUser(stores, "user-2", "bob")

	body := bytes.NewBufferString(`{"username":"bob"}`)
	req := authedRequest(http.MethodPut, "/api/v1/profile/me", body, "user-1")
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d got %d", http.StatusConflict, rec.Code)
	}
}

func TestUserHandlerDetail(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	seedActiveUser(stores, "user-1", "alice")
	seedActiveUser(stores, "user-2", "bob")
	if err := stores.follows.Create(context.Background(), models.Follow{FollowerID: "user-1", FollowingID: "user-2", CreatedAt: testNow}); err != nil {
		t.Fatalf("seed follow: %v", err)
	}

	req := authedRequest(http.MethodGet, "/api/v1/users/user-2", nil, "user-1")
	req.SetPathValue("id", "user-2")
	rec := httptest.NewRecorder()

	handler.Detail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		ID          string `json:"id"`
		IsFollowing bool   `json:"is_following"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "user-2" || !resp.IsFollowing {
		t.Fatalf("unexpected detail: %+v", resp)
	}
}

func TestUserHandlerDetailHidesInactiveAccounts(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	user := seedActiveUser(stores, "user-2", "bob")
	user.IsActive = false
	stores.users.users[user.ID] = user

	req := authedRequest(http.MethodGet, "/api/v1/users/user-2", nil, "user-1")
	req.SetPathValue("id", "user-2")
	rec := httptest.NewRecorder()

	handler.Detail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestUserHandlerFollow(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	seedActiveUser(stores, "user-1", "alice")
	seedActiveUser(stores, "user-2", "bob")

	req := authedRequest(http.MethodPost, "/api/v1/users/user-2/follow", nil, "user-1")
	req.SetPathValue("id", "user-2")
	rec := httptest.NewRecorder()

	handler.Follow(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	exists, err := stores.follows.Exists(context.Background(), "user-1", "user-2")
	if err != nil || !exists {
		t.Fatalf("expected follow edge to exist: exists=%v err=%v", exists, err)
	}

	// Following twice is a conflict, not a silent no-op.
	req = authedRequest(http.MethodPost, "/api/v1/users/user-2/follow", nil, "user-1")
	req.SetPathValue("id", "user-2")
	rec = httptest.NewRecorder()

	handler.Follow(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d on duplicate follow, got %d", http.StatusConflict, rec.Code)
	}
}

func TestUserHandlerFollowRejectsSelf(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	seedActiveUser(stores, "user-1", "alice")

	req := authedRequest(http.MethodPost, "/api/v1/users/user-1/follow", nil, "user-1")
	req.SetPathValue("id", "user-1")
	rec := httptest.NewRecorder()

	handler.Follow(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUserHandlerFollowUnknownTarget(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	seedActiveUser(stores, "user-1", "alice")

	req := authedRequest(http.MethodPost, "/api/v1/users/ghost/follow", nil, "user-1")
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()

	handler.Follow(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestUserHandlerUnfollow(t *testing.T) {
	stores := newMemStores(fixedNow)
	handler := UserHandler{Users: stores.users, Follows: stores.follows, NowFunc: fixedNow}

	seedActiveUser(stores, "user-1", "alice")
	seedActiveUser(stores, "user-2", "bob")
	if err := stores.follows.Create(context.Background(), models.Follow{FollowerID: "user-1", FollowingID: "user-2", CreatedAt: testNow}); err != nil {
		t.Fatalf("seed follow: %v", err)
	}

	req := authedRequest(http.MethodDelete, "/api/v1/users/user-2/follow", nil, "user-1")
	req.SetPathValue("id", "user-2")
	rec := httptest.NewRecorder()

	handler.Follow(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d got %d", http.StatusNoContent, rec.Code)
	}

	// Unfollowing someone you never followed is a 404.
	req = authedRequest(http.MethodDelete, "/api/v1/users/user-2/follow", nil, "user-1")
	req.SetPathValue("id", "user-2")
	rec = httptest.NewRecorder()

	handler.Follow(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

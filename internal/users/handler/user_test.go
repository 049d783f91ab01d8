package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "notcluely/pkg/errors"
	"notcluely/pkg/logger"
	"notcluely/pkg/model"
)

type mockUserService struct {
	registerFn       func(ctx context.Context, username, password, tz string) (*model.User, string, error)
	loginFn          func(ctx context.Context, username, password string) (*model.User, string, error)
	profileFn        func(ctx context.Context, userID string) (*model.User, error)
	updateTimezoneFn func(ctx context.Context, userID, tz string) (*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, username, password, tz string) (*model.User, string, error) {
	return m.registerFn(ctx, username, password, tz)
}

func (m *mockUserService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	return m.loginFn(ctx, username, password)
}

func (m *mockUserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return m.profileFn(ctx, userID)
}

func (m *mockUserService) UpdateTimezone(ctx context.Context, userID, tz string) (*model.User, error) {
	return m.updateTimezoneFn(ctx, userID, tz)
}

func (m *mockUserService) ResolveIdentity(context.Context, string) (model.Identity, error) {
	return model.Identity{}, nil
}

func newTestHandler(svc *mockUserService) *UserHandler {
	return NewUserHandler(svc, nil, logger.New(logger.Config{Level: "error"}))
}

func TestRegisterHandler(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(_ context.Context, username, password, tz string) (*model.User, string, error) {
			return &model.User{ID: "u1", Username: username, Timezone: tz}, "tok-123", nil
		},
	}
	h := newTestHandler(svc)

	body := `{"username":"alice","password":"Sup3rSecret","timezone":"UTC"}`
	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["access_token"] != "tok-123" {
		t.Errorf("access_token = %v", resp["access_token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("user missing from response: %v", resp)
	}
	if user["username"] != "alice" {
		t.Errorf("user.username = %v", user["username"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash leaked into the response")
	}
}

func TestRegisterHandlerConflict(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(context.Context, string, string, string) (*model.User, string, error) {
			return nil, "", apperrors.Conflict("Username already taken")
		},
	}
	h := newTestHandler(svc)

	body := `{"username":"alice","password":"Sup3rSecret","timezone":"UTC"}`
	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)), nil)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestLoginHandlerRateLimited(t *testing.T) {
	svc := &mockUserService{
		loginFn: func(context.Context, string, string) (*model.User, string, error) {
			return nil, "", apperrors.RateLimited("Too many login attempts, try again later", 90*time.Second)
		},
	}
	h := newTestHandler(svc)

	body := `{"username":"alice","password":"whatever"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)), nil)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "90" {
		t.Errorf("Retry-After = %q, want 90", got)
	}
}

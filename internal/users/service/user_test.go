package service

import (
	"context"
	"testing"
	"time"

	userserrors "notcluely/internal/users/errors"
	"notcluely/internal/users/validator"
	"notcluely/pkg/config"
	apperrors "notcluely/pkg/errors"
	"notcluely/pkg/logger"
	"notcluely/pkg/model"
	"notcluely/pkg/token"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	createFn         func(ctx context.Context, user *model.User) error
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	updateTimezoneFn func(ctx context.Context, id, tz string) error
	setAdminFn       func(ctx context.Context, id string, isAdmin bool) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) UpdateTimezone(ctx context.Context, id, tz string) error {
	if m.updateTimezoneFn != nil {
		return m.updateTimezoneFn(ctx, id, tz)
	}
	return nil
}

func (m *mockUserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	if m.setAdminFn != nil {
		return m.setAdminFn(ctx, id, isAdmin)
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AdminHandle:      "rutvik",
		LoginMaxAttempts: 3,
		LoginWindow:      time.Minute,
		Log:              logger.New(logger.Config{Level: "error"}),
	}
}

func newTestService(t *testing.T, repo *mockUserRepository) UserService {
	t.Helper()
	cfg := testConfig(t)
	return NewUserService(
		repo,
		validator.NewUserValidator(cfg.Log),
		token.NewManager("0123456789abcdef0123456789abcdef", time.Hour),
		cfg,
	)
}

func TestRegisterSuccess(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFn: func(_ context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(t, repo)

	user, tok, err := svc.Register(context.Background(), "Alice", "Sup3rSecret", "America/New_York")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if tok == "" {
		t.Error("expected non-empty token")
	}
	if user.Username != "alice" {
		t.Errorf("handle not lowercased: %q", user.Username)
	}
	if user.IsAdmin {
		t.Error("regular handle must not be admin")
	}
	if user.ID == "" {
		t.Error("expected generated user id")
	}
	if created == nil || created.PasswordHash == "" {
		t.Fatal("expected user persisted with a password hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Sup3rSecret")); err != nil {
		t.Error("stored hash does not match the password")
	}
}

func TestRegisterAdminHandle(t *testing.T) {
	svc := newTestService(t, &mockUserRepository{})

	user, _, err := svc.Register(context.Background(), "RutVik", "Sup3rSecret", "UTC")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !user.IsAdmin {
		t.Error("reserved handle must register as admin")
	}
}

func TestRegisterDuplicateHandle(t *testing.T) {
	repo := &mockUserRepository{
		createFn: func(context.Context, *model.User) error {
			return userserrors.ErrDuplicateHandle
		},
	}
	svc := newTestService(t, repo)

	_, _, err := svc.Register(context.Background(), "alice", "Sup3rSecret", "UTC")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", appErr.Code)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newTestService(t, &mockUserRepository{})

	_, _, err := svc.Register(context.Background(), "alice", "weak", "UTC")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", appErr.Code)
	}
}

func storedUser(t *testing.T, password string, isAdmin bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &model.User{
		ID:           "user-1",
		Username:     "alice",
		PasswordHash: string(hash),
		Timezone:     "UTC",
		IsAdmin:      isAdmin,
	}
}

func TestLoginSuccess(t *testing.T) {
	stored := storedUser(t, "Sup3rSecret", false)
	repo := &mockUserRepository{
		findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			if username != "alice" {
				return nil, userserrors.ErrNotFound
			}
			return stored, nil
		},
	}
	svc := newTestService(t, repo)

	user, tok, err := svc.Login(context.Background(), "ALICE", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tok == "" {
		t.Error("expected non-empty token")
	}
	if user.ID != "user-1" {
		t.Errorf("unexpected user %q", user.ID)
	}
}

func TestLoginUniformFailure(t *testing.T) {
	stored := storedUser(t, "Sup3rSecret", false)
	repo := &mockUserRepository{
		findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			if username == "alice" {
				return stored, nil
			}
			return nil, userserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	_, _, wrongPassErr := svc.Login(context.Background(), "alice", "WrongPass1")
	_, _, unknownErr := svc.Login(context.Background(), "nobody", "WrongPass1")

	wrongApp := apperrors.AsAppError(wrongPassErr)
	unknownApp := apperrors.AsAppError(unknownErr)

	if wrongApp.Code != apperrors.CodeUnauthorized || unknownApp.Code != apperrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED for both, got %s / %s", wrongApp.Code, unknownApp.Code)
	}
	// Identical messages so responses never reveal whether the handle exists.
	if wrongApp.Message != unknownApp.Message {
		t.Errorf("failure messages differ: %q vs %q", wrongApp.Message, unknownApp.Message)
	}
}

func TestLoginRateLimited(t *testing.T) {
	repo := &mockUserRepository{
		findByUsernameFn: func(context.Context, string) (*model.User, error) {
			return nil, userserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	for i := 0; i < 3; i++ {
		if _, _, err := svc.Login(context.Background(), "alice", "WrongPass1"); err == nil {
			t.Fatal("expected login failure")
		}
	}

	_, _, err := svc.Login(context.Background(), "alice", "WrongPass1")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeRateLimited {
		t.Fatalf("expected RATE_LIMITED, got %s", appErr.Code)
	}
	if appErr.RetryAfter <= 0 {
		t.Error("expected positive retry-after")
	}

	// The limit is per handle; another handle still gets its 401.
	_, _, err = svc.Login(context.Background(), "bob", "WrongPass1")
	if apperrors.AsAppError(err).Code != apperrors.CodeUnauthorized {
		t.Error("expected unrelated handle to pass the limiter")
	}
}

func TestLoginRecomputesAdminFlag(t *testing.T) {
	stored := storedUser(t, "Sup3rSecret", false)
	stored.Username = "rutvik"

	var persistedAdmin *bool
	repo := &mockUserRepository{
		findByUsernameFn: func(context.Context, string) (*model.User, error) {
			return stored, nil
		},
		setAdminFn: func(_ context.Context, _ string, isAdmin bool) error {
			persistedAdmin = &isAdmin
			return nil
		},
	}
	svc := newTestService(t, repo)

	user, _, err := svc.Login(context.Background(), "rutvik", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !user.IsAdmin {
		t.Error("reserved handle must be admin after login")
	}
	if persistedAdmin == nil || !*persistedAdmin {
		t.Error("expected admin flag persisted")
	}
}

func TestUpdateTimezone(t *testing.T) {
	stored := storedUser(t, "Sup3rSecret", false)
	repo := &mockUserRepository{
		updateTimezoneFn: func(_ context.Context, id, tz string) error {
			stored.Timezone = tz
			return nil
		},
		findByIDFn: func(context.Context, string) (*model.User, error) {
			return stored, nil
		},
	}
	svc := newTestService(t, repo)

	user, err := svc.UpdateTimezone(context.Background(), "user-1", "Asia/Calcutta")
	if err != nil {
		t.Fatalf("UpdateTimezone() error = %v", err)
	}
	if user.Timezone != "Asia/Calcutta" {
		t.Errorf("timezone = %q, want Asia/Calcutta", user.Timezone)
	}

	if _, err := svc.UpdateTimezone(context.Background(), "user-1", "Not/AZone"); err == nil {
		t.Error("expected invalid timezone to be rejected")
	}
}

func TestResolveIdentity(t *testing.T) {
	stored := storedUser(t, "Sup3rSecret", true)
	repo := &mockUserRepository{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			if id == "user-1" {
				return stored, nil
			}
			return nil, userserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	ident, err := svc.ResolveIdentity(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ResolveIdentity() error = %v", err)
	}
	if ident.ID != "user-1" || ident.Username != "alice" || !ident.IsAdmin {
		t.Errorf("unexpected identity %+v", ident)
	}

	if _, err := svc.ResolveIdentity(context.Background(), "ghost"); err == nil {
		t.Error("expected error for unknown user")
	}
}

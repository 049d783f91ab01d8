package service

import (
	"context"
	"errors"

	userserrors "notcluely/internal/users/errors"
	"notcluely/internal/users/repository"
	"notcluely/internal/users/validator"
	"notcluely/pkg/config"
	apperrors "notcluely/pkg/errors"
	"notcluely/pkg/model"
	"notcluely/pkg/sanitizer"
	"notcluely/pkg/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// invalidCredentialsMessage is deliberately identical for unknown handles
// and wrong passwords so login responses never reveal whether an account
// exists.
const invalidCredentialsMessage = "Invalid username or password"

type UserService interface {
	Register(ctx context.Context, username, password, tz string) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateTimezone(ctx context.Context, userID, tz string) (*model.User, error)
	ResolveIdentity(ctx context.Context, userID string) (model.Identity, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	tokens    *token.Manager
	limiter   *loginLimiter
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	tokens *token.Manager,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		tokens:    tokens,
		limiter:   newLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow),
		cfg:       cfg,
	}
}

func (s *userService) Register(ctx context.Context, username, password, tz string) (*model.User, string, error) {
	handle := sanitizer.NormalizeHandle(username)

	if err := s.validator.ValidateRegistration(handle, password, tz); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "username", handle, "error", err)
		return nil, "", apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     handle,
		PasswordHash: string(hash),
		Timezone:     tz,
		IsAdmin:      handle == s.cfg.AdminHandle,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateHandle) {
			return nil, "", apperrors.Conflict("Username already taken")
		}
		s.cfg.Log.Error("Failed to create user", "username", handle, "error", err)
		return nil, "", apperrors.Internal("Failed to create user", err)
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "username", handle, "is_admin", user.IsAdmin)
	return user, tok, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	handle := sanitizer.NormalizeHandle(username)

	if retryAfter, ok := s.limiter.Check(handle); !ok {
		s.cfg.Log.Warn("Login rate limited", "username", handle, "retry_after", retryAfter)
		return nil, "", apperrors.RateLimited("Too many login attempts, try again later", retryAfter)
	}

	user, err := s.repo.FindByUsername(ctx, handle)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			s.limiter.RecordFailure(handle)
			return nil, "", apperrors.Unauthorized(invalidCredentialsMessage)
		}
		s.cfg.Log.Error("Failed to load user for login", "username", handle, "error", err)
		return nil, "", apperrors.Internal("Failed to process login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.limiter.RecordFailure(handle)
		return nil, "", apperrors.Unauthorized(invalidCredentialsMessage)
	}

	s.limiter.Reset(handle)

	// Admin status follows the provisioned handle, so a config change takes
	// effect on the next login.
	if isAdmin := handle == s.cfg.AdminHandle; isAdmin != user.IsAdmin {
		if err := s.repo.SetAdmin(ctx, user.ID, isAdmin); err != nil {
			s.cfg.Log.Warn("Failed to persist admin flag", "id", user.ID, "error", err)
		}
		user.IsAdmin = isAdmin
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "username", handle, "is_admin", user.IsAdmin)
	return user, tok, nil
}

func (s *userService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *userService) UpdateTimezone(ctx context.Context, userID, tz string) (*model.User, error) {
	if err := s.validator.ValidateTimezone(tz); err != nil {
		return nil, apperrors.Validation("Invalid timezone", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpdateTimezone(ctx, userID, tz); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		return nil, apperrors.Internal("Failed to update timezone", err)
	}

	s.cfg.Log.Info("User timezone updated", "id", userID, "timezone", tz)
	return s.Profile(ctx, userID)
}

// ResolveIdentity backs the auth middleware: a fresh load per request so
// revoked or promoted accounts take effect immediately.
func (s *userService) ResolveIdentity(ctx context.Context, userID string) (model.Identity, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return model.Identity{}, err
	}
	return model.Identity{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}, nil
}

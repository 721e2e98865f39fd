package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/repo"
	"github.com/kopikeliling/marketplace/internal/transport"
	pkg_hash "github.com/kopikeliling/marketplace/pkg/hash"
	"github.com/kopikeliling/marketplace/pkg/logging"
	"github.com/kopikeliling/marketplace/pkg/tokens"
)

const minPasswordLen = 5

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

func userResponse(u *models.User) transport.UserResponse {
	return transport.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role.String()}
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.UserResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: Name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: Invalid email format", ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: Password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	role := models.RoleCustomer
	if req.Role != "" {
		r, err := models.ParseRole(req.Role)
		if err != nil || r == models.RoleAdmin {
			return nil, fmt.Errorf("%w: role must be Customer or Staff", ErrValidation)
		}
		role = r
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	u := &models.User{Name: req.Name, Email: req.Email, PasswordHash: pwHash, Role: role}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: Email already registered", ErrConflict)
		}
		return nil, err
	}

	l.Info("register_success", "user_id", u.ID, "role", role.String())
	resp := userResponse(u)
	return &resp, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if req.Email == "" {
		return nil, fmt.Errorf("%w: Email is required", ErrValidation)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: Password is required", ErrValidation)
	}

	u, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: Invalid email or password", ErrUnauthorized)
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(u.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return nil, fmt.Errorf("%w: Invalid email or password", ErrUnauthorized)
	}

	token, exp, err := tokens.SignAccess(u.ID, u.Role.String(), s.JWTSecret, s.TokenTTL, time.Now())
	if err != nil {
		return nil, err
	}

	l.Info("login_success", "user_id", u.ID)
	return &transport.LoginResponse{Token: token, ExpiresAt: exp, User: userResponse(u)}, nil
}

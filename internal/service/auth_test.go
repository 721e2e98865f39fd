package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopikeliling/marketplace/internal/models"
	"github.com/kopikeliling/marketplace/internal/transport"
	"github.com/kopikeliling/marketplace/pkg/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{Repo: newTestRepo(t), JWTSecret: []byte("test-jwt-secret"), TokenTTL: time.Hour}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.RegisterRequest
	}{
		{name: "empty name", req: transport.RegisterRequest{Email: "a@b.id", Password: "secret"}},
		{name: "bad email", req: transport.RegisterRequest{Name: "A", Email: "nope", Password: "secret"}},
		{name: "short password", req: transport.RegisterRequest{Name: "A", Email: "a@b.id", Password: "1234"}},
		{name: "admin role", req: transport.RegisterRequest{Name: "A", Email: "a@b.id", Password: "secret", Role: "Admin"}},
		{name: "unknown role", req: transport.RegisterRequest{Name: "A", Email: "a@b.id", Password: "secret", Role: "barista"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, transport.RegisterRequest{Name: "Budi", Email: "Budi@Kopi.id", Password: "rahasia", Role: "Staff"})
	require.NoError(t, err)
	assert.Equal(t, "budi@kopi.id", u.Email)
	assert.Equal(t, "Staff", u.Role)

	_, err = svc.Register(ctx, transport.RegisterRequest{Name: "Budi 2", Email: "budi@kopi.id", Password: "rahasia"})
	require.ErrorIs(t, err, ErrConflict)

	sp, err := svc.Repo.GetStaffProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, sp.IsActive)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "budi@kopi.id", Password: "salah"})
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, transport.LoginRequest{Email: "siapa@kopi.id", Password: "rahasia"})
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, transport.LoginRequest{Password: "rahasia"})
	require.ErrorIs(t, err, ErrValidation)

	res, err := svc.Login(ctx, transport.LoginRequest{Email: "budi@kopi.id", Password: "rahasia"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := tokens.AccessClaimsFromToken(res.Token, svc.JWTSecret)
	require.NoError(t, err)
	role, err := models.ParseRole(claims.Role)
	require.NoError(t, err)
	assert.True(t, role.Allows(models.CapSell))
}

package services

import (
	"context"
	"testing"

	"adopte-server/internal/config"
	"adopte-server/internal/domain"
	"adopte-server/internal/repository"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiryMin:  15,
		RefreshExpiry: 14,
	}
	return NewAuthService(userRepo, cfg), userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Email:     "alice@example.com",
		Password:  "motdepasse",
		Role:      domain.RoleStudent,
		FirstName: "Alice",
		LastName:  "Martin",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, domain.RoleStudent, res.User.Role)
	assert.Equal(t, "Alice Martin", res.User.DisplayName)

	claims, err := svc.ParseAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, string(domain.RoleStudent), claims.Role)

	_, err = svc.Register(ctx, RegisterInput{
		Email:     "alice@example.com",
		Password:  "motdepasse",
		Role:      domain.RoleStudent,
		FirstName: "Alice",
		LastName:  "Martin",
	})
	assert.ErrorIs(t, err, adopte_errors.ErrAlreadyExists)

	login, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "motdepasse"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, adopte_errors.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "motdepasse"})
	assert.ErrorIs(t, err, adopte_errors.ErrUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"short password": {Email: "a@b.fr", Password: "short", Role: domain.RoleStudent, FirstName: "A", LastName: "B"},
		"bad email":      {Email: "not-an-email", Password: "motdepasse", Role: domain.RoleStudent, FirstName: "A", LastName: "B"},
		"student without name": {
			Email: "a@b.fr", Password: "motdepasse", Role: domain.RoleStudent,
		},
		"company without name": {
			Email: "a@b.fr", Password: "motdepasse", Role: domain.RoleCompany,
		},
		"admin self-registration": {
			Email: "a@b.fr", Password: "motdepasse", Role: domain.RoleAdmin,
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, in)
			assert.ErrorIs(t, err, adopte_errors.ErrInvalidInput)
		})
	}
}

func TestRefreshTokens(t *testing.T) {
	svc, userRepo := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Email:       "hr@acme.fr",
		Password:    "motdepasse",
		Role:        domain.RoleCompany,
		CompanyName: "ACME",
	})
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
	assert.Equal(t, res.User.ID, renewed.User.ID)

	// the two token kinds are not interchangeable
	_, err = svc.Refresh(ctx, res.AccessToken)
	assert.ErrorIs(t, err, adopte_errors.ErrUnauthorized)
	_, err = svc.ParseAccessToken(res.RefreshToken)
	assert.ErrorIs(t, err, adopte_errors.ErrUnauthorized)

	// a deactivated account cannot renew
	u, err := userRepo.GetByEmail(ctx, "hr@acme.fr")
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, userRepo.Update(ctx, u))
	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, adopte_errors.ErrUnauthorized)
}

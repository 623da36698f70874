package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/caymanbizevents/events-api/internal/models"
	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail       *models.User
	userByID          *models.User
	findByEmailErr    error
	findByIDErr       error
	updatePasswordErr error
	lastLoginUpdated  bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.userByID != nil {
		return m.userByID, nil
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	if m.userByEmail != nil && m.userByEmail.ID == id {
		m.userByEmail.PasswordHash = passwordHash
	}
	return nil
}

type mockDenylist struct {
	revoked map[string]time.Duration
}

func (m *mockDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if m.revoked == nil {
		m.revoked = make(map[string]time.Duration)
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *mockDenylist) IsRevoked(ctx context.Context, tokenID string) bool {
	_, ok := m.revoked[tokenID]
	return ok
}

func adminUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.User{ID: "u1", Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin, Active: true}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: adminUser(t, "password")}
	svc := NewAuthService(repo, &mockDenylist{}, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "u1", res.ID)
	assert.Equal(t, models.RoleAdmin, res.Role)
	assert.EqualValues(t, 3600, res.ExpiresIn)
	assert.True(t, repo.lastLoginUpdated)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: adminUser(t, "password")}
	svc := NewAuthService(repo, &mockDenylist{}, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "nope"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginRequiresAdmin(t *testing.T) {
	user := adminUser(t, "password")
	user.Role = models.RoleUser
	repo := &mockAuthRepo{userByEmail: user}
	svc := NewAuthService(repo, &mockDenylist{}, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAdminRequired.Code, appErr.Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	user := adminUser(t, "password")
	user.Active = false
	repo := &mockAuthRepo{userByEmail: user}
	svc := NewAuthService(repo, &mockDenylist{}, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceValidateToken(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, &mockDenylist{}, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	token, _, err := svc.generateToken(&models.User{ID: "u1", Email: "admin@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	repo := &mockAuthRepo{}
	denylist := &mockDenylist{}
	svc := NewAuthService(repo, denylist, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	token, _, err := svc.generateToken(&models.User{ID: "u1", Email: "admin@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	assert.True(t, denylist.IsRevoked(context.Background(), claims.ID))

	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	user := adminUser(t, "oldpassword")
	oldHash := user.PasswordHash
	repo := &mockAuthRepo{userByEmail: user}
	svc := NewAuthService(repo, &mockDenylist{}, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{OldPassword: "oldpassword", NewPassword: "newpassword"})
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, repo.userByEmail.PasswordHash)
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: adminUser(t, "oldpassword")}
	svc := NewAuthService(repo, &mockDenylist{}, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpassword"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

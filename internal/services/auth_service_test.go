package services

import (
	"context"
	"testing"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/config"
	"cleanops_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setTestConfig(t *testing.T) {
	t.Helper()

	previous := config.AppConfig
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	t.Cleanup(func() { config.AppConfig = previous })
}

func createLoginUser(t *testing.T, db *gorm.DB, companyID, email, password string, active bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: hash,
		FullName:     "Login User",
		Role:         models.UserRoleCleaner,
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	if !active {
		// Create omits zero-valued fields, so the column default
		// (true) wins; write the flag explicitly.
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
	}
	return user
}

func TestLogin_IssuesToken(t *testing.T) {
	setTestConfig(t)
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	user := createLoginUser(t, env.db, company.ID, "cleaner@sparkle.test", "correct-horse", true)

	token, loggedIn, err := env.services.AuthService.Login(ctx, "cleaner@sparkle.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, company.ID, claims.CompanyID)
	assert.Equal(t, models.UserRoleCleaner, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	setTestConfig(t)
	env := newTestEnv(t)
	company := createCompany(t, env.db, models.CompanyPlanActive)
	createLoginUser(t, env.db, company.ID, "cleaner@sparkle.test", "correct-horse", true)

	_, _, err := env.services.AuthService.Login(context.Background(), "cleaner@sparkle.test", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLogin_UnknownEmail(t *testing.T) {
	setTestConfig(t)
	env := newTestEnv(t)

	_, _, err := env.services.AuthService.Login(context.Background(), "ghost@sparkle.test", "whatever")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLogin_InactiveAccount(t *testing.T) {
	setTestConfig(t)
	env := newTestEnv(t)
	company := createCompany(t, env.db, models.CompanyPlanActive)
	createLoginUser(t, env.db, company.ID, "cleaner@sparkle.test", "correct-horse", false)

	_, _, err := env.services.AuthService.Login(context.Background(), "cleaner@sparkle.test", "correct-horse")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrWorkerInactive))
}

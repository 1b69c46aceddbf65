package services

import (
	"context"
	"fmt"
	"testing"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCleaner_HashesPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)

	user, err := env.services.UserService.CreateCleaner(ctx, company.ID, &dto.CreateCleanerRequest{
		Email:    "cleaner@sparkle.test",
		FullName: "Aliya Cleaner",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, models.UserRoleCleaner, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, auth.CheckPasswordHash("correct-horse", user.PasswordHash))
}

func TestCreateCleaner_WeakPasswordRejected(t *testing.T) {
	env := newTestEnv(t)
	company := createCompany(t, env.db, models.CompanyPlanActive)

	_, err := env.services.UserService.CreateCleaner(context.Background(), company.ID, &dto.CreateCleanerRequest{
		Email:    "cleaner@sparkle.test",
		FullName: "Aliya Cleaner",
		Password: "short",
	})
	require.Error(t, err)
}

func TestCreateCleaner_TrialCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanTrial)

	for i := 0; i < models.DefaultTrialMaxCleaners; i++ {
		_, err := env.services.UserService.CreateCleaner(ctx, company.ID, &dto.CreateCleanerRequest{
			Email:    fmt.Sprintf("cleaner%d@sparkle.test", i),
			FullName: "Cleaner",
			Password: "correct-horse",
		})
		require.NoError(t, err)
	}

	_, err := env.services.UserService.CreateCleaner(ctx, company.ID, &dto.CreateCleanerRequest{
		Email:    "one-too-many@sparkle.test",
		FullName: "Cleaner",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrLimitReached))
}

func TestSetActive_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	user := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")

	require.NoError(t, env.services.UserService.SetActive(ctx, user.ID, false))

	reloaded, err := env.services.UserService.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	require.NoError(t, env.services.UserService.SetActive(ctx, user.ID, true))
	reloaded, err = env.services.UserService.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsActive)
}

func TestGetUser_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.services.UserService.GetUser(context.Background(), "missing-id")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUserNotFound))
}

package auth

import (
	"testing"

	"cleanops_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	assert.True(t, Can(models.UserRoleCleaner, CapabilityCheckIn))
	assert.True(t, Can(models.UserRoleCleaner, CapabilityManagePhotos))
	assert.False(t, Can(models.UserRoleCleaner, CapabilityForceComplete))
	assert.False(t, Can(models.UserRoleCleaner, CapabilityCreateJob))

	assert.True(t, Can(models.UserRoleManager, CapabilityForceComplete))
	assert.True(t, Can(models.UserRoleManager, CapabilityCreateJob))
	assert.False(t, Can(models.UserRoleManager, CapabilityCheckIn))

	assert.True(t, Can(models.UserRoleAdmin, CapabilityManageBilling))
	assert.True(t, Can(models.UserRoleAdmin, CapabilityCheckIn))

	assert.False(t, Can(models.UserRole("ghost"), CapabilityCheckIn))
}

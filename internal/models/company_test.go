package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func trialCompany(expiresIn time.Duration) *Company {
	now := time.Now()
	expires := now.Add(expiresIn)
	return &Company{
		Plan:           CompanyPlanTrial,
		TrialStartedAt: &now,
		TrialExpiresAt: &expires,
	}
}

func TestLimits_Defaults(t *testing.T) {
	c := &Company{}
	limits := c.Limits()
	assert.Equal(t, DefaultTrialMaxCleaners, limits.MaxCleaners)
	assert.Equal(t, DefaultTrialMaxJobs, limits.MaxJobs)
}

func TestLimits_PartialOverride(t *testing.T) {
	c := &Company{PlanLimits: datatypes.JSON(`{"max_jobs": 100}`)}
	limits := c.Limits()
	assert.Equal(t, DefaultTrialMaxCleaners, limits.MaxCleaners)
	assert.Equal(t, 100, limits.MaxJobs)
}

func TestLimits_UnreadableJSONFallsBack(t *testing.T) {
	c := &Company{PlanLimits: datatypes.JSON(`broken`)}
	limits := c.Limits()
	assert.Equal(t, DefaultTrialMaxCleaners, limits.MaxCleaners)
}

func TestTrialPredicates(t *testing.T) {
	now := time.Now()

	active := trialCompany(time.Hour)
	assert.True(t, active.IsTrialActiveAt(now))
	assert.False(t, active.IsTrialExpiredAt(now))
	assert.False(t, active.IsBlockedAt(now))

	expired := trialCompany(-time.Hour)
	assert.False(t, expired.IsTrialActiveAt(now))
	assert.True(t, expired.IsTrialExpiredAt(now))
	assert.True(t, expired.IsBlockedAt(now))

	blocked := &Company{Plan: CompanyPlanBlocked}
	assert.True(t, blocked.IsBlockedAt(now))

	paid := &Company{Plan: CompanyPlanActive}
	assert.False(t, paid.IsBlockedAt(now))
	assert.False(t, paid.IsTrialActiveAt(now))
}

func TestTrialWithoutWindowIsNeitherActiveNorExpired(t *testing.T) {
	now := time.Now()
	c := &Company{Plan: CompanyPlanTrial}
	assert.False(t, c.IsTrialActiveAt(now))
	assert.False(t, c.IsTrialExpiredAt(now))
	assert.False(t, c.IsBlockedAt(now))
}

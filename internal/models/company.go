package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Default trial caps, applied when a company has no explicit plan limits.
const (
	DefaultTrialMaxCleaners = 5
	DefaultTrialMaxJobs     = 50
)

type Company struct {
	BaseModel
	Name       string      `gorm:"not null" json:"name"`
	OwnerEmail string      `gorm:"not null" json:"owner_email"`
	Plan       CompanyPlan `gorm:"type:varchar(20);not null;default:'trial'" json:"plan"`

	// Trial window; both nil outside a trial.
	TrialStartedAt *time.Time `json:"trial_started_at,omitempty"`
	TrialExpiresAt *time.Time `json:"trial_expires_at,omitempty"`

	// PlanLimits overrides the default trial caps, e.g. {"max_cleaners": 10, "max_jobs": 100}.
	PlanLimits datatypes.JSON `json:"plan_limits,omitempty"`

	// Relations
	Locations []Location `gorm:"foreignKey:CompanyID" json:"-"`
	Users     []User     `gorm:"foreignKey:CompanyID" json:"-"`
	Jobs      []Job      `gorm:"foreignKey:CompanyID" json:"-"`
}

type PlanLimits struct {
	MaxCleaners int `json:"max_cleaners"`
	MaxJobs     int `json:"max_jobs"`
}

// Limits returns the company's trial caps, falling back to the defaults
// when the JSON column is empty or unreadable.
func (c *Company) Limits() PlanLimits {
	limits := PlanLimits{
		MaxCleaners: DefaultTrialMaxCleaners,
		MaxJobs:     DefaultTrialMaxJobs,
	}
	if len(c.PlanLimits) == 0 {
		return limits
	}
	var parsed PlanLimits
	if err := json.Unmarshal(c.PlanLimits, &parsed); err != nil {
		return limits
	}
	if parsed.MaxCleaners > 0 {
		limits.MaxCleaners = parsed.MaxCleaners
	}
	if parsed.MaxJobs > 0 {
		limits.MaxJobs = parsed.MaxJobs
	}
	return limits
}

func (c *Company) IsTrialActiveAt(now time.Time) bool {
	return c.Plan == CompanyPlanTrial && c.TrialExpiresAt != nil && now.Before(*c.TrialExpiresAt)
}

func (c *Company) IsTrialExpiredAt(now time.Time) bool {
	return c.Plan == CompanyPlanTrial && c.TrialExpiresAt != nil && !now.Before(*c.TrialExpiresAt)
}

// IsBlockedAt reports whether mutating creations are refused. An expired
// trial blocks the same way an explicit blocked plan does; reads stay open.
func (c *Company) IsBlockedAt(now time.Time) bool {
	return c.Plan == CompanyPlanBlocked || c.IsTrialExpiredAt(now)
}

func (c *Company) IsTrialActive() bool  { return c.IsTrialActiveAt(time.Now()) }
func (c *Company) IsTrialExpired() bool { return c.IsTrialExpiredAt(time.Now()) }
func (c *Company) IsBlocked() bool      { return c.IsBlockedAt(time.Now()) }

package auth

import (
	"errors"

	"cleanops_backend/internal/models"
)

// Capability names an action a role may perform. Handlers check the
// capability once at the boundary before calling into the services;
// the services themselves only re-verify identity-bound rules (e.g.
// "assigned worker only").
type Capability string

const (
	CapabilityCheckIn         Capability = "jobs:check_in"
	CapabilityCheckOut        Capability = "jobs:check_out"
	CapabilityForceComplete   Capability = "jobs:force_complete"
	CapabilityCancelJob       Capability = "jobs:cancel"
	CapabilityCreateJob       Capability = "jobs:create"
	CapabilityManageChecklist Capability = "jobs:checklist"
	CapabilityManagePhotos    Capability = "jobs:photos"
	CapabilityManageUsers     Capability = "users:manage"
	CapabilityManageBilling   Capability = "billing:manage"
	CapabilityManageCatalog   Capability = "catalog:manage" // locations and checklist templates
)

var rolePermissions = map[models.UserRole][]Capability{
	models.UserRoleAdmin: {
		CapabilityCheckIn,
		CapabilityCheckOut,
		CapabilityForceComplete,
		CapabilityCancelJob,
		CapabilityCreateJob,
		CapabilityManageChecklist,
		CapabilityManagePhotos,
		CapabilityManageUsers,
		CapabilityManageBilling,
		CapabilityManageCatalog,
	},
	models.UserRoleManager: {
		CapabilityForceComplete,
		CapabilityCancelJob,
		CapabilityCreateJob,
		CapabilityManageUsers,
		CapabilityManageCatalog,
	},
	models.UserRoleCleaner: {
		CapabilityCheckIn,
		CapabilityCheckOut,
		CapabilityManageChecklist,
		CapabilityManagePhotos,
	},
}

// Can reports whether the role holds the capability.
func Can(role models.UserRole, capability Capability) bool {
	for _, c := range rolePermissions[role] {
		if c == capability {
			return true
		}
	}
	return false
}

func ValidateRole(role models.UserRole) error {
	if !role.IsValid() {
		return errors.New("invalid role")
	}
	return nil
}

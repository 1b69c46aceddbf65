package validator

import (
	"log"

	"cleanops_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers the custom validation functions on the
// given validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-photo-type", validatePhotoType)
	mustRegister("is-job-status", validateJobStatus)
	mustRegister("is-user-role", validateUserRole)
}

func validatePhotoType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty values are the job of 'required'
	}
	return models.PhotoType(value).IsValid()
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.JobStatus(value).IsValid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).IsValid()
}

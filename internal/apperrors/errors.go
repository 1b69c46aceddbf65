package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"cleanops_backend/internal/geo"
)

// ErrorCode identifies an error class to API clients.
type ErrorCode string

// AppError is the application error carried from services to handlers.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on the error code so callers can compare against the
// predefined vars while services return detail-enriched copies.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// WithDetails returns a copy carrying extra structured detail. The
// predefined Err vars are shared, so the receiver is never mutated.
func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors
var (
	// Authentication and authorization
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)

	// Lookup
	ErrJobNotFound      = New(CodeJobNotFound, "Job not found", http.StatusNotFound)
	ErrUserNotFound     = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrCompanyNotFound  = New(CodeCompanyNotFound, "Company not found", http.StatusNotFound)
	ErrLocationNotFound = New(CodeLocationNotFound, "Location not found", http.StatusNotFound)
	ErrItemNotFound     = New(CodeItemNotFound, "Checklist item not found", http.StatusNotFound)
	ErrPhotoNotFound    = New(CodePhotoNotFound, "Photo not found", http.StatusNotFound)
	ErrTemplateNotFound = New(CodeTemplateNotFound, "Checklist template not found", http.StatusNotFound)

	// Job lifecycle
	ErrJobStateConflict    = New(CodeJobStateConflict, "Operation is not valid for the current job status", http.StatusConflict)
	ErrJobAlreadyFinalized = New(CodeJobAlreadyFinalized, "Job is already finalized", http.StatusConflict)
	ErrNotAssignedWorker   = New(CodeNotAssignedWorker, "Only the assigned worker can perform this action", http.StatusForbidden)
	ErrWorkerInactive      = New(CodeWorkerInactive, "Worker account is deactivated", http.StatusForbidden)
	ErrOverrideReasonEmpty = New(CodeOverrideReasonEmpty, "Override reason is required", http.StatusBadRequest)

	// Geo verification
	ErrOutOfRange         = New(CodeOutOfRange, "Position is too far from the job location", http.StatusUnprocessableEntity)
	ErrMissingCoordinates = New(CodeMissingCoordinates, "Job location has no coordinates", http.StatusUnprocessableEntity)

	// Proof ledger
	ErrPhotoAlreadyExists  = New(CodePhotoAlreadyExists, "Photo of this type already exists for the job", http.StatusConflict)
	ErrPhotoSequence       = New(CodePhotoSequence, "Before photo must be uploaded first", http.StatusConflict)
	ErrPhotoDependency     = New(CodePhotoDependency, "Before photo cannot be deleted while an after photo exists", http.StatusConflict)
	ErrChecklistIncomplete = New(CodeChecklistIncomplete, "Required checklist items are not completed", http.StatusUnprocessableEntity)

	// Trial / usage gate
	ErrLimitReached   = New(CodeLimitReached, "Trial plan limit reached", http.StatusForbidden)
	ErrCompanyBlocked = New(CodeCompanyBlocked, "Company plan is blocked or trial has expired", http.StatusForbidden)
)

// Helpers

func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

// OutOfRange carries the measured distance so clients can show the user
// how far off they are.
func OutOfRange(distanceM float64) *AppError {
	return ErrOutOfRange.WithDetails(map[string]interface{}{
		"distance_m":  distanceM,
		"threshold_m": geo.ProximityThresholdMeters,
	})
}

// LimitReached carries the cap for user messaging.
func LimitReached(resource string, limit int) *AppError {
	return ErrLimitReached.WithDetails(map[string]interface{}{
		"resource": resource,
		"limit":    limit,
	})
}

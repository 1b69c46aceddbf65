package apperrors

// Error codes grouped by domain. Codes are part of the API contract:
// clients branch on them, so existing values never change.
const (
	// Authentication and authorization
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Lookup
	CodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	CodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	CodeCompanyNotFound  ErrorCode = "COMPANY_NOT_FOUND"
	CodeLocationNotFound ErrorCode = "LOCATION_NOT_FOUND"
	CodeItemNotFound     ErrorCode = "CHECKLIST_ITEM_NOT_FOUND"
	CodePhotoNotFound    ErrorCode = "PHOTO_NOT_FOUND"
	CodeTemplateNotFound ErrorCode = "CHECKLIST_TEMPLATE_NOT_FOUND"

	// Job lifecycle
	CodeJobStateConflict    ErrorCode = "JOB_STATE_CONFLICT"
	CodeJobAlreadyFinalized ErrorCode = "JOB_ALREADY_FINALIZED"
	CodeNotAssignedWorker   ErrorCode = "NOT_ASSIGNED_WORKER"
	CodeWorkerInactive      ErrorCode = "WORKER_INACTIVE"
	CodeOverrideReasonEmpty ErrorCode = "OVERRIDE_REASON_EMPTY"

	// Geo verification
	CodeOutOfRange         ErrorCode = "OUT_OF_RANGE"
	CodeMissingCoordinates ErrorCode = "MISSING_COORDINATES"

	// Proof ledger
	CodePhotoAlreadyExists  ErrorCode = "PHOTO_ALREADY_EXISTS"
	CodePhotoSequence       ErrorCode = "PHOTO_SEQUENCE"
	CodePhotoDependency     ErrorCode = "PHOTO_DEPENDENCY"
	CodeChecklistIncomplete ErrorCode = "CHECKLIST_INCOMPLETE"

	// Trial / usage gate
	CodeLimitReached   ErrorCode = "LIMIT_REACHED"
	CodeCompanyBlocked ErrorCode = "COMPANY_BLOCKED"

	// Infrastructure
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

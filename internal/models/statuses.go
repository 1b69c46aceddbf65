package models

// JobStatus is the lifecycle state of a job.
// Transitions are owned by services.JobService; nothing else writes it.
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	// JobStatusCompleted is a worker-driven, GPS-verified closure.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusCompletedUnverified is a manager override closure. It is a
	// separate terminal status, never folded into JobStatusCompleted,
	// because reporting separates verified from overridden closures.
	JobStatusCompletedUnverified JobStatus = "completed_unverified"
	JobStatusCancelled           JobStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further mutation.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusCompletedUnverified, JobStatusCancelled:
		return true
	}
	return false
}

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted,
		JobStatusCompletedUnverified, JobStatusCancelled:
		return true
	}
	return false
}

type CheckEventType string

const (
	CheckEventCheckIn       CheckEventType = "check_in"
	CheckEventCheckOut      CheckEventType = "check_out"
	CheckEventForceComplete CheckEventType = "force_complete"
)

type PhotoType string

const (
	PhotoTypeBefore PhotoType = "before"
	PhotoTypeAfter  PhotoType = "after"
)

func (t PhotoType) IsValid() bool {
	return t == PhotoTypeBefore || t == PhotoTypeAfter
}

type CompanyPlan string

const (
	CompanyPlanTrial   CompanyPlan = "trial"
	CompanyPlanActive  CompanyPlan = "active"
	CompanyPlanBlocked CompanyPlan = "blocked"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleCleaner UserRole = "cleaner"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleCleaner:
		return true
	}
	return false
}

// SlaStatus is the outcome of an SLA evaluation, derived, never persisted.
type SlaStatus string

const (
	SlaStatusOK       SlaStatus = "ok"
	SlaStatusViolated SlaStatus = "violated"
)

// SLA violation reasons, in the fixed order the evaluator emits them.
const (
	SlaReasonMissingBeforePhoto    = "missing_before_photo"
	SlaReasonMissingAfterPhoto     = "missing_after_photo"
	SlaReasonChecklistNotCompleted = "checklist_not_completed"
)

package dto

import (
	"time"

	"cleanops_backend/internal/models"
)

type CreateJobRequest struct {
	CompanyID          string
	LocationID         string
	WorkerID           string
	ScheduledDate      time.Time
	ScheduledStartTime string // "15:04"
	ScheduledEndTime   string
	// ChecklistTemplateID is optional; when set the template items are
	// snapshotted onto the job at creation.
	ChecklistTemplateID string
}

type JobStatusResult struct {
	JobID  string           `json:"job_id"`
	Status models.JobStatus `json:"status"`
}

type OverrideMeta struct {
	At     time.Time `json:"at"`
	By     string    `json:"by"`
	Reason string    `json:"reason"`
}

type ForceCompleteResult struct {
	JobID    string           `json:"job_id"`
	Status   models.JobStatus `json:"status"`
	Override OverrideMeta     `json:"override"`
}

package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	CompanyID  string `gorm:"type:uuid;not null;index" json:"company_id"`
	LocationID string `gorm:"type:uuid;not null;index" json:"location_id"`
	WorkerID   string `gorm:"type:uuid;not null;index" json:"worker_id"`

	Status JobStatus `gorm:"type:varchar(25);not null;default:'scheduled';index" json:"status"`

	ScheduledDate      time.Time `gorm:"type:date;not null" json:"scheduled_date"`
	ScheduledStartTime string    `gorm:"type:varchar(5);not null" json:"scheduled_start_time"` // "15:04"
	ScheduledEndTime   string    `gorm:"type:varchar(5);not null" json:"scheduled_end_time"`

	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`

	// Manager override (force-complete) metadata.
	Override       bool       `gorm:"not null;default:false" json:"override"`
	OverrideAt     *time.Time `json:"override_at,omitempty"`
	OverrideBy     *string    `gorm:"type:uuid" json:"override_by,omitempty"`
	OverrideReason string     `gorm:"type:text" json:"override_reason,omitempty"`

	// SlaOverrideReasons, when set, is the authoritative SLA violation
	// reason list for this job; the evaluator never recomputes past it.
	SlaOverrideReasons datatypes.JSON `json:"sla_override_reasons,omitempty"`

	// Relations
	Company        *Company           `gorm:"foreignKey:CompanyID" json:"-"`
	Location       *Location          `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Worker         *User              `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	CheckEvents    []JobCheckEvent    `gorm:"foreignKey:JobID" json:"-"`
	ChecklistItems []JobChecklistItem `gorm:"foreignKey:JobID" json:"checklist_items,omitempty"`
	Photos         []JobPhoto         `gorm:"foreignKey:JobID" json:"photos,omitempty"`
}

// ScheduledEndAt combines scheduled_date and scheduled_end_time into one
// instant, used by the on-time metric. Returns false when the stored time
// string does not parse.
func (j *Job) ScheduledEndAt() (time.Time, bool) {
	t, err := time.Parse("15:04", j.ScheduledEndTime)
	if err != nil {
		return time.Time{}, false
	}
	d := j.ScheduledDate
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location()), true
}

// OverrideReasons decodes the persisted SLA override reason set.
// Returns nil when unset or unreadable.
func (j *Job) OverrideReasons() []string {
	if len(j.SlaOverrideReasons) == 0 {
		return nil
	}
	var reasons []string
	if err := json.Unmarshal(j.SlaOverrideReasons, &reasons); err != nil {
		return nil
	}
	if len(reasons) == 0 {
		return nil
	}
	return reasons
}

// JobCheckEvent is an append-only audit record of a lifecycle transition.
// Rows are never updated or deleted; CreatedAt is the event timestamp.
type JobCheckEvent struct {
	BaseModel
	JobID     string         `gorm:"type:uuid;not null;index" json:"job_id"`
	Type      CheckEventType `gorm:"type:varchar(20);not null" json:"type"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	DistanceM *float64       `json:"distance_m,omitempty"`
}

// JobChecklistItem is a per-job snapshot of a template item, copied at job
// creation. Template edits never reach existing jobs.
type JobChecklistItem struct {
	BaseModel
	JobID     string `gorm:"type:uuid;not null;index" json:"job_id"`
	Position  int    `gorm:"not null" json:"position"`
	Text      string `gorm:"type:text;not null" json:"text"`
	Required  bool   `gorm:"not null;default:false" json:"required"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
}

type JobPhoto struct {
	BaseModel
	JobID      string    `gorm:"type:uuid;not null;index:idx_job_photos_job_type,unique" json:"job_id"`
	Type       PhotoType `gorm:"type:varchar(10);not null;index:idx_job_photos_job_type,unique" json:"type"`
	StorageRef string    `gorm:"not null" json:"storage_ref"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`

	// EXIF fields; nil when the camera did not record GPS.
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	CapturedAt  *time.Time `json:"captured_at,omitempty"`
	ExifMissing bool       `gorm:"not null;default:false" json:"exif_missing"`
}

type ChecklistTemplate struct {
	BaseModel
	CompanyID string `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`

	Items []ChecklistTemplateItem `gorm:"foreignKey:TemplateID" json:"items,omitempty"`
}

type ChecklistTemplateItem struct {
	BaseModel
	TemplateID string `gorm:"type:uuid;not null;index" json:"template_id"`
	Position   int    `gorm:"not null" json:"position"`
	Text       string `gorm:"type:text;not null" json:"text"`
	Required   bool   `gorm:"not null;default:false" json:"required"`
}

// IncompleteRequiredItems returns the required items that are still open.
// When no item carries the required marker every item is treated as
// required; an empty checklist is vacuously complete.
func IncompleteRequiredItems(items []JobChecklistItem) []JobChecklistItem {
	anyRequired := false
	for _, it := range items {
		if it.Required {
			anyRequired = true
			break
		}
	}

	var incomplete []JobChecklistItem
	for _, it := range items {
		if (it.Required || !anyRequired) && !it.Completed {
			incomplete = append(incomplete, it)
		}
	}
	return incomplete
}

// ChecklistComplete reports whether checkout may proceed.
func ChecklistComplete(items []JobChecklistItem) bool {
	return len(IncompleteRequiredItems(items)) == 0
}

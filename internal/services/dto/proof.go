package dto

import (
	"time"

	"cleanops_backend/internal/models"
)

type UploadPhotoRequest struct {
	JobID    string
	ActorID  string
	Type     models.PhotoType
	Data     []byte
	MimeType string

	// EXIF values extracted by the client; all optional.
	ExifLatitude   *float64
	ExifLongitude  *float64
	ExifCapturedAt *time.Time
}

type UploadPhotoResult struct {
	Type        models.PhotoType `json:"type"`
	StorageRef  string           `json:"storage_ref"`
	ExifMissing bool             `json:"exif_missing"`
}

type ToggleItemResult struct {
	ItemID    string `json:"item_id"`
	Completed bool   `json:"is_completed"`
}

type BulkUpdateItem struct {
	ID        string `json:"id" binding:"required"`
	Completed bool   `json:"is_completed"`
}

type BulkUpdateResult struct {
	UpdatedCount int `json:"updated_count"`
}

package services

import (
	"bytes"
	"context"
	"fmt"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/geo"
	"cleanops_backend/internal/logger"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/repositories"
	"cleanops_backend/internal/services/dto"
	"cleanops_backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProofService owns the per-job proof ledger: before/after photos and
// the checklist snapshot. All mutations require the job to be
// in_progress and run under the job's row lock.
type ProofService interface {
	UploadPhoto(ctx context.Context, req *dto.UploadPhotoRequest) (*dto.UploadPhotoResult, error)
	DeletePhoto(ctx context.Context, jobID string, photoType models.PhotoType) error

	ToggleChecklistItem(ctx context.Context, jobID, itemID string, completed bool) (*dto.ToggleItemResult, error)
	BulkUpdateChecklist(ctx context.Context, jobID string, updates []dto.BulkUpdateItem) (*dto.BulkUpdateResult, error)
}

type proofService struct {
	db           *gorm.DB
	jobRepo      repositories.JobRepository
	proofRepo    repositories.ProofRepository
	locationRepo repositories.LocationRepository
	blobs        storage.Storage
}

func NewProofService(
	db *gorm.DB,
	jobRepo repositories.JobRepository,
	proofRepo repositories.ProofRepository,
	locationRepo repositories.LocationRepository,
	blobs storage.Storage,
) ProofService {
	return &proofService{
		db:           db,
		jobRepo:      jobRepo,
		proofRepo:    proofRepo,
		locationRepo: locationRepo,
		blobs:        blobs,
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// lockInProgressJob loads the job under the row lock and verifies it is
// still mutable.
func lockInProgressJob(ctx context.Context, jobs repositories.JobRepository, jobID string) (*models.Job, error) {
	job, err := jobs.FindByIDForUpdate(ctx, jobID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if job.Status.IsTerminal() {
		return nil, apperrors.ErrJobAlreadyFinalized
	}
	if job.Status != models.JobStatusInProgress {
		return nil, apperrors.ErrJobStateConflict.WithDetails(map[string]interface{}{
			"status": job.Status,
		})
	}
	return job, nil
}

func (s *proofService) UploadPhoto(ctx context.Context, req *dto.UploadPhotoRequest) (*dto.UploadPhotoResult, error) {
	if !req.Type.IsValid() {
		return nil, apperrors.NewBadRequestError("Unknown photo type")
	}
	if len(req.Data) == 0 {
		return nil, apperrors.NewBadRequestError("Photo payload is empty")
	}

	storageRef := fmt.Sprintf("jobs/%s/%s_%s.%s", req.JobID, req.Type, uuid.NewString(), extensionFor(req.MimeType))

	var result *dto.UploadPhotoResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)
		proofs := s.proofRepo.WithTx(tx)

		job, err := lockInProgressJob(ctx, jobs, req.JobID)
		if err != nil {
			return err
		}

		existing, err := proofs.Photos(ctx, job.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		hasBefore := false
		for _, p := range existing {
			if p.Type == req.Type {
				return apperrors.ErrPhotoAlreadyExists.WithDetails(map[string]interface{}{
					"type": req.Type,
				})
			}
			if p.Type == models.PhotoTypeBefore {
				hasBefore = true
			}
		}
		if req.Type == models.PhotoTypeAfter && !hasBefore {
			return apperrors.ErrPhotoSequence
		}

		exifMissing := req.ExifLatitude == nil || req.ExifLongitude == nil
		if !exifMissing {
			location, err := s.locationRepo.FindByID(ctx, job.LocationID)
			if err != nil {
				return apperrors.InternalError(err)
			}
			// Check-in already required coordinates, so an in-progress
			// job always has them; guard anyway.
			if location.HasCoordinates() {
				distance := geo.Distance(*req.ExifLatitude, *req.ExifLongitude, *location.Latitude, *location.Longitude)
				if !geo.WithinRange(distance) {
					return apperrors.OutOfRange(distance)
				}
			}
		}

		photo := &models.JobPhoto{
			JobID:       job.ID,
			Type:        req.Type,
			StorageRef:  storageRef,
			MimeType:    req.MimeType,
			Size:        int64(len(req.Data)),
			Latitude:    req.ExifLatitude,
			Longitude:   req.ExifLongitude,
			CapturedAt:  req.ExifCapturedAt,
			ExifMissing: exifMissing,
		}
		if err := proofs.CreatePhoto(ctx, photo); err != nil {
			return apperrors.InternalError(err)
		}

		// The blob write happens inside the transaction scope so a row
		// failure never leaves an orphaned record; an orphaned blob on
		// rollback is tolerated and swept by storage lifecycle rules.
		if err := s.blobs.Save(ctx, storageRef, bytes.NewReader(req.Data), req.MimeType); err != nil {
			return apperrors.InternalError(err)
		}

		result = &dto.UploadPhotoResult{
			Type:        photo.Type,
			StorageRef:  photo.StorageRef,
			ExifMissing: photo.ExifMissing,
		}
		logger.CtxInfo(ctx, "photo uploaded", "job_id", job.ID, "type", photo.Type, "exif_missing", photo.ExifMissing)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *proofService) DeletePhoto(ctx context.Context, jobID string, photoType models.PhotoType) error {
	if !photoType.IsValid() {
		return apperrors.NewBadRequestError("Unknown photo type")
	}

	var storageRef string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)
		proofs := s.proofRepo.WithTx(tx)

		job, err := lockInProgressJob(ctx, jobs, jobID)
		if err != nil {
			return err
		}

		photo, err := proofs.PhotoByType(ctx, job.ID, photoType)
		if err != nil {
			if apperrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPhotoNotFound
			}
			return apperrors.InternalError(err)
		}

		if photoType == models.PhotoTypeBefore {
			if _, err := proofs.PhotoByType(ctx, job.ID, models.PhotoTypeAfter); err == nil {
				return apperrors.ErrPhotoDependency
			} else if !apperrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.InternalError(err)
			}
		}

		if err := proofs.DeletePhoto(ctx, photo.ID); err != nil {
			return apperrors.InternalError(err)
		}
		storageRef = photo.StorageRef
		return nil
	})
	if err != nil {
		return err
	}

	// The row is authoritative; blob removal is best effort and a
	// failure is only logged.
	if err := s.blobs.Delete(ctx, storageRef); err != nil {
		logger.CtxWithError(ctx, "failed to delete photo blob", err, "job_id", jobID, "storage_ref", storageRef)
	}

	logger.CtxInfo(ctx, "photo deleted", "job_id", jobID, "type", photoType)
	return nil
}

func (s *proofService) ToggleChecklistItem(ctx context.Context, jobID, itemID string, completed bool) (*dto.ToggleItemResult, error) {
	var result *dto.ToggleItemResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)
		proofs := s.proofRepo.WithTx(tx)

		// The job row lock serializes concurrent toggles on the same
		// job, so two requests cannot interleave lost updates.
		job, err := lockInProgressJob(ctx, jobs, jobID)
		if err != nil {
			return err
		}

		items, err := proofs.ChecklistItemsForUpdate(ctx, job.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}

		for i := range items {
			if items[i].ID == itemID {
				items[i].Completed = completed
				if err := proofs.SaveChecklistItem(ctx, &items[i]); err != nil {
					return apperrors.InternalError(err)
				}
				result = &dto.ToggleItemResult{ItemID: itemID, Completed: completed}
				return nil
			}
		}
		return apperrors.ErrItemNotFound
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkUpdateChecklist resolves every referenced item against the job in
// one pass; a single unmatched ID fails the whole operation with no
// partial writes.
func (s *proofService) BulkUpdateChecklist(ctx context.Context, jobID string, updates []dto.BulkUpdateItem) (*dto.BulkUpdateResult, error) {
	if len(updates) == 0 {
		return &dto.BulkUpdateResult{UpdatedCount: 0}, nil
	}

	var result *dto.BulkUpdateResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)
		proofs := s.proofRepo.WithTx(tx)

		job, err := lockInProgressJob(ctx, jobs, jobID)
		if err != nil {
			return err
		}

		items, err := proofs.ChecklistItemsForUpdate(ctx, job.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}

		byID := make(map[string]*models.JobChecklistItem, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		var unmatched []string
		changed := make([]models.JobChecklistItem, 0, len(updates))
		for _, u := range updates {
			item, ok := byID[u.ID]
			if !ok {
				unmatched = append(unmatched, u.ID)
				continue
			}
			item.Completed = u.Completed
			changed = append(changed, *item)
		}
		if len(unmatched) > 0 {
			return apperrors.ErrItemNotFound.WithDetails(map[string]interface{}{
				"unmatched_ids": unmatched,
			})
		}

		if err := proofs.SaveChecklistItems(ctx, changed); err != nil {
			return apperrors.InternalError(err)
		}

		result = &dto.BulkUpdateResult{UpdatedCount: len(changed)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

package services

import (
	"context"
	"encoding/json"
	"time"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/geo"
	"cleanops_backend/internal/logger"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/repositories"
	"cleanops_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// overrideReasonManager is the authoritative SLA reason persisted by
// force-complete; reporting never upgrades an overridden closure to ok.
const overrideReasonManager = "manager_override"

// JobService is the job lifecycle state machine. Every transition runs
// inside one transaction holding an exclusive lock on the job row, so a
// given job finalizes at most once regardless of concurrent requests.
type JobService interface {
	CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)

	CheckIn(ctx context.Context, jobID, actorID string, lat, lon float64) (*dto.JobStatusResult, error)
	CheckOut(ctx context.Context, jobID, actorID string, lat, lon float64) (*dto.JobStatusResult, error)
	ForceComplete(ctx context.Context, jobID, managerID, reason string) (*dto.ForceCompleteResult, error)
	Cancel(ctx context.Context, jobID string) (*dto.JobStatusResult, error)
}

type jobService struct {
	db           *gorm.DB
	jobRepo      repositories.JobRepository
	proofRepo    repositories.ProofRepository
	userRepo     repositories.UserRepository
	locationRepo repositories.LocationRepository
	billing      BillingService
}

func NewJobService(
	db *gorm.DB,
	jobRepo repositories.JobRepository,
	proofRepo repositories.ProofRepository,
	userRepo repositories.UserRepository,
	locationRepo repositories.LocationRepository,
	billing BillingService,
) JobService {
	return &jobService{
		db:           db,
		jobRepo:      jobRepo,
		proofRepo:    proofRepo,
		userRepo:     userRepo,
		locationRepo: locationRepo,
		billing:      billing,
	}
}

// CreateJob consults the trial gate, then creates the job and copies the
// checklist template items onto it in one transaction. The snapshot is a
// copy: later template edits never reach the job.
func (s *jobService) CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := s.billing.EnsureCanCreateJob(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	location, err := s.locationRepo.FindByID(ctx, req.LocationID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if location.CompanyID != req.CompanyID {
		return nil, apperrors.ErrLocationNotFound
	}

	worker, err := s.userRepo.FindByID(ctx, req.WorkerID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if worker.CompanyID != req.CompanyID {
		return nil, apperrors.ErrUserNotFound
	}
	if !worker.IsActive {
		return nil, apperrors.ErrWorkerInactive
	}

	var template *models.ChecklistTemplate
	if req.ChecklistTemplateID != "" {
		template, err = s.proofRepo.FindTemplate(ctx, req.ChecklistTemplateID)
		if err != nil {
			if apperrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrTemplateNotFound
			}
			return nil, apperrors.InternalError(err)
		}
	}

	job := &models.Job{
		CompanyID:          req.CompanyID,
		LocationID:         req.LocationID,
		WorkerID:           req.WorkerID,
		Status:             models.JobStatusScheduled,
		ScheduledDate:      req.ScheduledDate,
		ScheduledStartTime: req.ScheduledStartTime,
		ScheduledEndTime:   req.ScheduledEndTime,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)
		proofs := s.proofRepo.WithTx(tx)

		if err := jobs.Create(ctx, job); err != nil {
			return err
		}
		if template == nil {
			return nil
		}

		items := make([]models.JobChecklistItem, 0, len(template.Items))
		for _, ti := range template.Items {
			items = append(items, models.JobChecklistItem{
				JobID:    job.ID,
				Position: ti.Position,
				Text:     ti.Text,
				Required: ti.Required,
			})
		}
		return proofs.CreateChecklistItems(ctx, items)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "company_id", job.CompanyID)
	return s.GetJob(ctx, job.ID)
}

func (s *jobService) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

// verifyActor checks that the caller is the assigned, still-active worker.
func (s *jobService) verifyActor(ctx context.Context, job *models.Job, actorID string) error {
	if job.WorkerID != actorID {
		return apperrors.ErrNotAssignedWorker
	}
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	if !actor.IsActive {
		return apperrors.ErrWorkerInactive
	}
	return nil
}

// verifyDistance runs the GPS gate against the job's location and
// returns the measured distance.
func (s *jobService) verifyDistance(ctx context.Context, job *models.Job, lat, lon float64) (float64, error) {
	location, err := s.locationRepo.FindByID(ctx, job.LocationID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrLocationNotFound
		}
		return 0, apperrors.InternalError(err)
	}
	if !location.HasCoordinates() {
		return 0, apperrors.ErrMissingCoordinates
	}

	distance := geo.Distance(lat, lon, *location.Latitude, *location.Longitude)
	if !geo.WithinRange(distance) {
		return distance, apperrors.OutOfRange(distance)
	}
	return distance, nil
}

func (s *jobService) CheckIn(ctx context.Context, jobID, actorID string, lat, lon float64) (*dto.JobStatusResult, error) {
	var result *dto.JobStatusResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)

		job, err := jobs.FindByIDForUpdate(ctx, jobID)
		if err != nil {
			if apperrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrJobNotFound
			}
			return apperrors.InternalError(err)
		}

		if job.Status.IsTerminal() {
			return apperrors.ErrJobAlreadyFinalized
		}
		if job.Status != models.JobStatusScheduled {
			return apperrors.ErrJobStateConflict.WithDetails(map[string]interface{}{
				"status": job.Status,
			})
		}
		if err := s.verifyActor(ctx, job, actorID); err != nil {
			return err
		}

		distance, err := s.verifyDistance(ctx, job, lat, lon)
		if err != nil {
			return err
		}

		now := time.Now()
		job.Status = models.JobStatusInProgress
		job.ActualStartTime = &now
		if err := jobs.Save(ctx, job); err != nil {
			return apperrors.InternalError(err)
		}

		event := &models.JobCheckEvent{
			JobID:     job.ID,
			Type:      models.CheckEventCheckIn,
			Latitude:  &lat,
			Longitude: &lon,
			DistanceM: &distance,
		}
		if err := jobs.AppendCheckEvent(ctx, event); err != nil {
			return apperrors.InternalError(err)
		}

		result = &dto.JobStatusResult{JobID: job.ID, Status: job.Status}
		logger.CtxInfo(ctx, "worker checked in", "job_id", job.ID, "distance_m", distance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *jobService) CheckOut(ctx context.Context, jobID, actorID string, lat, lon float64) (*dto.JobStatusResult, error) {
	var result *dto.JobStatusResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)
		proofs := s.proofRepo.WithTx(tx)

		job, err := jobs.FindByIDForUpdate(ctx, jobID)
		if err != nil {
			if apperrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrJobNotFound
			}
			return apperrors.InternalError(err)
		}

		if job.Status.IsTerminal() {
			return apperrors.ErrJobAlreadyFinalized
		}
		if job.Status != models.JobStatusInProgress {
			return apperrors.ErrJobStateConflict.WithDetails(map[string]interface{}{
				"status": job.Status,
			})
		}
		if err := s.verifyActor(ctx, job, actorID); err != nil {
			return err
		}

		distance, err := s.verifyDistance(ctx, job, lat, lon)
		if err != nil {
			return err
		}

		items, err := proofs.ChecklistItems(ctx, job.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if incomplete := models.IncompleteRequiredItems(items); len(incomplete) > 0 {
			fields := make([]string, 0, len(incomplete))
			for _, it := range incomplete {
				fields = append(fields, it.Text)
			}
			return apperrors.ErrChecklistIncomplete.WithDetails(map[string]interface{}{
				"incomplete_items": fields,
			})
		}

		now := time.Now()
		job.Status = models.JobStatusCompleted
		job.ActualEndTime = &now
		if err := jobs.Save(ctx, job); err != nil {
			return apperrors.InternalError(err)
		}

		event := &models.JobCheckEvent{
			JobID:     job.ID,
			Type:      models.CheckEventCheckOut,
			Latitude:  &lat,
			Longitude: &lon,
			DistanceM: &distance,
		}
		if err := jobs.AppendCheckEvent(ctx, event); err != nil {
			return apperrors.InternalError(err)
		}

		result = &dto.JobStatusResult{JobID: job.ID, Status: job.Status}
		logger.CtxInfo(ctx, "worker checked out", "job_id", job.ID, "distance_m", distance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForceComplete closes an in-progress job on a manager's authority. A
// prior check-in is mandatory: the baseline GPS proof comes from it, so
// a still-scheduled job cannot be force-completed.
func (s *jobService) ForceComplete(ctx context.Context, jobID, managerID, reason string) (*dto.ForceCompleteResult, error) {
	if reason == "" {
		return nil, apperrors.ErrOverrideReasonEmpty
	}

	manager, err := s.userRepo.FindByID(ctx, managerID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if manager.Role != models.UserRoleManager && manager.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	var result *dto.ForceCompleteResult

	err = s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)

		job, err := jobs.FindByIDForUpdate(ctx, jobID)
		if err != nil {
			if apperrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrJobNotFound
			}
			return apperrors.InternalError(err)
		}

		if job.Status.IsTerminal() {
			return apperrors.ErrJobAlreadyFinalized
		}
		if job.Status != models.JobStatusInProgress {
			return apperrors.ErrJobStateConflict.WithDetails(map[string]interface{}{
				"status": job.Status,
			})
		}

		now := time.Now()
		job.Status = models.JobStatusCompletedUnverified
		if job.ActualEndTime == nil {
			job.ActualEndTime = &now
		}
		job.Override = true
		job.OverrideAt = &now
		job.OverrideBy = &manager.ID
		job.OverrideReason = reason

		overrideReasons, err := json.Marshal([]string{overrideReasonManager})
		if err != nil {
			return apperrors.InternalError(err)
		}
		job.SlaOverrideReasons = datatypes.JSON(overrideReasons)

		if err := jobs.Save(ctx, job); err != nil {
			return apperrors.InternalError(err)
		}

		event := &models.JobCheckEvent{
			JobID: job.ID,
			Type:  models.CheckEventForceComplete,
		}
		if err := jobs.AppendCheckEvent(ctx, event); err != nil {
			return apperrors.InternalError(err)
		}

		result = &dto.ForceCompleteResult{
			JobID:  job.ID,
			Status: job.Status,
			Override: dto.OverrideMeta{
				At:     now,
				By:     manager.ID,
				Reason: reason,
			},
		}
		logger.CtxWarn(ctx, "job force-completed", "job_id", job.ID, "manager_id", manager.ID, "reason", reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel moves a scheduled or in-progress job to cancelled.
func (s *jobService) Cancel(ctx context.Context, jobID string) (*dto.JobStatusResult, error) {
	var result *dto.JobStatusResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		jobs := s.jobRepo.WithTx(tx)

		job, err := jobs.FindByIDForUpdate(ctx, jobID)
		if err != nil {
			if apperrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrJobNotFound
			}
			return apperrors.InternalError(err)
		}

		if job.Status.IsTerminal() {
			return apperrors.ErrJobAlreadyFinalized
		}

		job.Status = models.JobStatusCancelled
		if err := jobs.Save(ctx, job); err != nil {
			return apperrors.InternalError(err)
		}

		result = &dto.JobStatusResult{JobID: job.ID, Status: job.Status}
		logger.CtxInfo(ctx, "job cancelled", "job_id", job.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

package services

import (
	"context"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/repositories"
	"cleanops_backend/internal/services/dto"

	"gorm.io/gorm"
)

// SlaService derives the SLA verdict for a closed job from its proof
// ledger. Evaluate is pure: identical (job, proof) input always yields
// the identical (status, reasons) output in the identical order, which
// downstream aggregation depends on.
type SlaService interface {
	Evaluate(job *models.Job, photos []models.JobPhoto, items []models.JobChecklistItem) dto.SlaResult
	EvaluateJob(ctx context.Context, jobID string) (*dto.SlaResult, error)

	// OnTime reports whether the job finished by its scheduled end.
	// counted is false for jobs without an actual end time; they are
	// excluded from the metric's denominator.
	OnTime(job *models.Job) (onTime bool, counted bool)
}

type slaService struct {
	jobRepo   repositories.JobRepository
	proofRepo repositories.ProofRepository
}

func NewSlaService(jobRepo repositories.JobRepository, proofRepo repositories.ProofRepository) SlaService {
	return &slaService{jobRepo: jobRepo, proofRepo: proofRepo}
}

// Evaluate never fails; missing data degrades the specific reason check,
// not the whole evaluation.
func (s *slaService) Evaluate(job *models.Job, photos []models.JobPhoto, items []models.JobChecklistItem) dto.SlaResult {
	if job.Status != models.JobStatusCompleted && job.Status != models.JobStatusCompletedUnverified {
		return dto.SlaResult{Status: models.SlaStatusOK, Reasons: []string{}}
	}

	// A persisted override reason set is authoritative: an overridden
	// closure is never upgraded to ok.
	if overridden := job.OverrideReasons(); overridden != nil {
		reasons := make([]string, len(overridden))
		copy(reasons, overridden)
		return dto.SlaResult{Status: models.SlaStatusViolated, Reasons: reasons}
	}

	hasBefore, hasAfter := false, false
	for _, p := range photos {
		switch p.Type {
		case models.PhotoTypeBefore:
			hasBefore = true
		case models.PhotoTypeAfter:
			hasAfter = true
		}
	}

	reasons := []string{}
	if !hasBefore {
		reasons = append(reasons, models.SlaReasonMissingBeforePhoto)
	}
	if !hasAfter {
		reasons = append(reasons, models.SlaReasonMissingAfterPhoto)
	}
	if !models.ChecklistComplete(items) {
		reasons = append(reasons, models.SlaReasonChecklistNotCompleted)
	}

	status := models.SlaStatusOK
	if len(reasons) > 0 {
		status = models.SlaStatusViolated
	}
	return dto.SlaResult{Status: status, Reasons: reasons}
}

func (s *slaService) EvaluateJob(ctx context.Context, jobID string) (*dto.SlaResult, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	result := s.Evaluate(job, job.Photos, job.ChecklistItems)
	return &result, nil
}

func (s *slaService) OnTime(job *models.Job) (bool, bool) {
	if job.ActualEndTime == nil {
		return false, false
	}
	deadline, ok := job.ScheduledEndAt()
	if !ok {
		return false, false
	}
	return !job.ActualEndTime.After(deadline), true
}

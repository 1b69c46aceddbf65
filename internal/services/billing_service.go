package services

import (
	"context"
	"time"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/logger"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/repositories"

	"gorm.io/gorm"
)

// BillingService owns the company plan lifecycle and the trial usage
// caps consulted before mutating creations.
type BillingService interface {
	StartTrial(ctx context.Context, companyID string, days int) (*models.Company, error)
	UpgradeToActive(ctx context.Context, companyID string) (*models.Company, error)

	CanAddCleaner(ctx context.Context, companyID string) (bool, error)
	CanCreateJob(ctx context.Context, companyID string) (bool, error)

	// EnsureCanAddCleaner / EnsureCanCreateJob are the gate form used by
	// creation flows: blocked companies and exceeded caps come back as
	// typed errors carrying the cap for user messaging.
	EnsureCanAddCleaner(ctx context.Context, companyID string) error
	EnsureCanCreateJob(ctx context.Context, companyID string) error
}

type billingService struct {
	companyRepo repositories.CompanyRepository
}

func NewBillingService(companyRepo repositories.CompanyRepository) BillingService {
	return &billingService{companyRepo: companyRepo}
}

func (s *billingService) findCompany(ctx context.Context, companyID string) (*models.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return company, nil
}

// StartTrial opens (or restarts) the trial window. A no-op while an
// unexpired trial is already running.
func (s *billingService) StartTrial(ctx context.Context, companyID string, days int) (*models.Company, error) {
	if days <= 0 {
		return nil, apperrors.NewBadRequestError("Trial days must be positive")
	}

	company, err := s.findCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if company.IsTrialActiveAt(now) {
		return company, nil
	}

	expires := now.Add(time.Duration(days) * 24 * time.Hour)
	company.Plan = models.CompanyPlanTrial
	company.TrialStartedAt = &now
	company.TrialExpiresAt = &expires

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "trial started", "company_id", company.ID, "expires_at", expires)
	return company, nil
}

// UpgradeToActive moves the company to the paid plan and clears the
// trial window. Idempotent when already active.
func (s *billingService) UpgradeToActive(ctx context.Context, companyID string) (*models.Company, error) {
	company, err := s.findCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if company.Plan == models.CompanyPlanActive {
		return company, nil
	}

	company.Plan = models.CompanyPlanActive
	company.TrialStartedAt = nil
	company.TrialExpiresAt = nil

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "company upgraded to active", "company_id", company.ID)
	return company, nil
}

func (s *billingService) CanAddCleaner(ctx context.Context, companyID string) (bool, error) {
	err := s.EnsureCanAddCleaner(ctx, companyID)
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, apperrors.ErrLimitReached) || apperrors.Is(err, apperrors.ErrCompanyBlocked) {
		return false, nil
	}
	return false, err
}

func (s *billingService) CanCreateJob(ctx context.Context, companyID string) (bool, error) {
	err := s.EnsureCanCreateJob(ctx, companyID)
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, apperrors.ErrLimitReached) || apperrors.Is(err, apperrors.ErrCompanyBlocked) {
		return false, nil
	}
	return false, err
}

func (s *billingService) EnsureCanAddCleaner(ctx context.Context, companyID string) error {
	company, err := s.findCompany(ctx, companyID)
	if err != nil {
		return err
	}

	now := time.Now()
	if company.IsBlockedAt(now) {
		return apperrors.ErrCompanyBlocked
	}
	if !company.IsTrialActiveAt(now) {
		return nil
	}

	limit := company.Limits().MaxCleaners
	count, err := s.companyRepo.CountActiveCleaners(ctx, companyID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count >= int64(limit) {
		return apperrors.LimitReached("cleaners", limit)
	}
	return nil
}

// EnsureCanCreateJob compares the total job count against the trial cap.
// The count and the subsequent insert are deliberately not covered by a
// shared lock; two simultaneous creations can exceed the cap by one
// (soft limit).
func (s *billingService) EnsureCanCreateJob(ctx context.Context, companyID string) error {
	company, err := s.findCompany(ctx, companyID)
	if err != nil {
		return err
	}

	now := time.Now()
	if company.IsBlockedAt(now) {
		return apperrors.ErrCompanyBlocked
	}
	if !company.IsTrialActiveAt(now) {
		return nil
	}

	limit := company.Limits().MaxJobs
	count, err := s.companyRepo.CountJobs(ctx, companyID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count >= int64(limit) {
		return apperrors.LimitReached("jobs", limit)
	}
	return nil
}

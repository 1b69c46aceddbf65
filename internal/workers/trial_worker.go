package workers

import (
	"context"
	"fmt"
	"time"

	"cleanops_backend/internal/email"
	"cleanops_backend/internal/logger"
	"cleanops_backend/internal/models"

	"gorm.io/gorm"
)

// TrialWorker periodically moves companies whose trial window has
// passed onto the blocked plan and emails the owner. Expired trials
// are already refused by the usage gate at request time, so a missed
// tick never lets anything through; the sweep settles the stored plan
// and sends the notice.
type TrialWorker struct {
	db       *gorm.DB
	provider email.Provider
	interval time.Duration
}

func NewTrialWorker(db *gorm.DB, provider email.Provider) *TrialWorker {
	return &TrialWorker{
		db:       db,
		provider: provider,
		interval: 6 * time.Hour,
	}
}

func (w *TrialWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *TrialWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("trial worker stopped")
			return
		case <-ticker.C:
			w.sweepExpiredTrials(ctx)
		}
	}
}

// sweepExpiredTrials moves companies whose trial window has passed to
// the blocked plan and emails the owner once.
func (w *TrialWorker) sweepExpiredTrials(ctx context.Context) {
	var expired []models.Company
	err := w.db.WithContext(ctx).
		Where("plan = ? AND trial_expires_at IS NOT NULL AND trial_expires_at <= ?",
			models.CompanyPlanTrial, time.Now()).
		Find(&expired).Error
	if err != nil {
		logger.Error("trial sweep query failed", "error", err)
		return
	}

	for i := range expired {
		company := &expired[i]
		company.Plan = models.CompanyPlanBlocked
		if err := w.db.WithContext(ctx).Save(company).Error; err != nil {
			logger.Error("failed to block expired trial", "company_id", company.ID, "error", err)
			continue
		}

		body := fmt.Sprintf(
			"The trial period for %s has ended. Upgrade your plan to keep scheduling jobs; existing data stays available.",
			company.Name,
		)
		if err := w.provider.Send(company.OwnerEmail, "Your trial has ended", body); err != nil {
			logger.Error("failed to send trial expiry notice", "company_id", company.ID, "error", err)
		}

		logger.Info("trial expired, company blocked", "company_id", company.ID)
	}
}

package repositories

import (
	"context"

	"cleanops_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepository interface {
	WithTx(tx *gorm.DB) JobRepository
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id string) (*models.Job, error)
	// FindByIDForUpdate loads the job under an exclusive row lock. It is
	// only meaningful inside a transaction.
	FindByIDForUpdate(ctx context.Context, id string) (*models.Job, error)
	Save(ctx context.Context, job *models.Job) error
	FindByCompany(ctx context.Context, companyID string) ([]models.Job, error)

	AppendCheckEvent(ctx context.Context, event *models.JobCheckEvent) error
	CheckEvents(ctx context.Context, jobID string) ([]models.JobCheckEvent, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) WithTx(tx *gorm.DB) JobRepository {
	return &jobRepository{db: tx}
}

// lockForUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// sqlite (used by the test suites) serializes writers on its own and
// rejects the clause.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Photos").
		First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := lockForUpdate(r.db.WithContext(ctx)).First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Save(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) FindByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("scheduled_date ASC, scheduled_start_time ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) AppendCheckEvent(ctx context.Context, event *models.JobCheckEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *jobRepository) CheckEvents(ctx context.Context, jobID string) ([]models.JobCheckEvent, error) {
	var events []models.JobCheckEvent
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

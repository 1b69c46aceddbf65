package repositories

import (
	"context"

	"cleanops_backend/internal/models"

	"gorm.io/gorm"
)

// ProofRepository covers the per-job proof rows: photos and checklist
// item snapshots.
type ProofRepository interface {
	WithTx(tx *gorm.DB) ProofRepository

	ChecklistItems(ctx context.Context, jobID string) ([]models.JobChecklistItem, error)
	// ChecklistItemsForUpdate locks the job's item rows for the duration
	// of the surrounding transaction.
	ChecklistItemsForUpdate(ctx context.Context, jobID string) ([]models.JobChecklistItem, error)
	CreateChecklistItems(ctx context.Context, items []models.JobChecklistItem) error
	SaveChecklistItem(ctx context.Context, item *models.JobChecklistItem) error
	SaveChecklistItems(ctx context.Context, items []models.JobChecklistItem) error

	Photos(ctx context.Context, jobID string) ([]models.JobPhoto, error)
	PhotoByType(ctx context.Context, jobID string, photoType models.PhotoType) (*models.JobPhoto, error)
	CreatePhoto(ctx context.Context, photo *models.JobPhoto) error
	DeletePhoto(ctx context.Context, id string) error

	FindTemplate(ctx context.Context, id string) (*models.ChecklistTemplate, error)
	CreateTemplate(ctx context.Context, template *models.ChecklistTemplate) error
}

type proofRepository struct {
	db *gorm.DB
}

func NewProofRepository(db *gorm.DB) ProofRepository {
	return &proofRepository{db: db}
}

func (r *proofRepository) WithTx(tx *gorm.DB) ProofRepository {
	return &proofRepository{db: tx}
}

func (r *proofRepository) ChecklistItems(ctx context.Context, jobID string) ([]models.JobChecklistItem, error) {
	var items []models.JobChecklistItem
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("position ASC").
		Find(&items).Error
	return items, err
}

func (r *proofRepository) ChecklistItemsForUpdate(ctx context.Context, jobID string) ([]models.JobChecklistItem, error) {
	var items []models.JobChecklistItem
	err := lockForUpdate(r.db.WithContext(ctx)).
		Where("job_id = ?", jobID).
		Order("position ASC").
		Find(&items).Error
	return items, err
}

func (r *proofRepository) CreateChecklistItems(ctx context.Context, items []models.JobChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *proofRepository) SaveChecklistItem(ctx context.Context, item *models.JobChecklistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *proofRepository) SaveChecklistItems(ctx context.Context, items []models.JobChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&items).Error
}

func (r *proofRepository) Photos(ctx context.Context, jobID string) ([]models.JobPhoto, error) {
	var photos []models.JobPhoto
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&photos).Error
	return photos, err
}

func (r *proofRepository) PhotoByType(ctx context.Context, jobID string, photoType models.PhotoType) (*models.JobPhoto, error) {
	var photo models.JobPhoto
	err := r.db.WithContext(ctx).
		First(&photo, "job_id = ? AND type = ?", jobID, photoType).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *proofRepository) CreatePhoto(ctx context.Context, photo *models.JobPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *proofRepository) DeletePhoto(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.JobPhoto{}, "id = ?", id).Error
}

func (r *proofRepository) FindTemplate(ctx context.Context, id string) (*models.ChecklistTemplate, error) {
	var template models.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *proofRepository) CreateTemplate(ctx context.Context, template *models.ChecklistTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

package repositories

import (
	"context"

	"cleanops_backend/internal/models"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	WithTx(tx *gorm.DB) CompanyRepository
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id string) (*models.Company, error)
	Save(ctx context.Context, company *models.Company) error
	CountActiveCleaners(ctx context.Context, companyID string) (int64, error)
	CountJobs(ctx context.Context, companyID string) (int64, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) WithTx(tx *gorm.DB) CompanyRepository {
	return &companyRepository{db: tx}
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *companyRepository) FindByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Save(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *companyRepository) CountActiveCleaners(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("company_id = ? AND role = ? AND is_active = ?", companyID, models.UserRoleCleaner, true).
		Count(&count).Error
	return count, err
}

func (r *companyRepository) CountJobs(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

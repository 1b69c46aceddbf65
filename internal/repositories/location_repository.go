package repositories

import (
	"context"

	"cleanops_backend/internal/models"

	"gorm.io/gorm"
)

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	FindByID(ctx context.Context, id string) (*models.Location, error)
	FindByCompany(ctx context.Context, companyID string) ([]models.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *locationRepository) FindByID(ctx context.Context, id string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) FindByCompany(ctx context.Context, companyID string) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&locations).Error
	return locations, err
}
